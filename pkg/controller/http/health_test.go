package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/m-mizutani/ghfeed/pkg/controller/http"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T, uc *webhookUCMock) *controller.Server {
	t.Helper()
	server, err := controller.NewServer(
		context.Background(),
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &webhookUCMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status.Status).Equal("healthy")
	gt.Value(t, status.Service).Equal("ghfeed")
	gt.String(t, status.Version).NotEqual("")
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, &webhookUCMock{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)
	body, err := io.ReadAll(w.Body)
	gt.NoError(t, err)
	gt.String(t, string(body)).Contains("ghfeed_run_duration_seconds")
}

func TestNewServer_RequiresSecret(t *testing.T) {
	_, err := controller.NewServer(context.Background(), &webhookUCMock{})
	gt.Error(t, err)
}
