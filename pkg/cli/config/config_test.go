package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestHTTP_NewClient(t *testing.T) {
	cfg := config.HTTP{Timeout: 5 * time.Second}
	client := cfg.NewClient()
	gt.Value(t, client.Timeout).Equal(5 * time.Second)
	gt.NotNil(t, client.Transport)
	client.CloseIdleConnections()
}

func TestRedis_Disabled(t *testing.T) {
	cfg := config.Redis{}
	gt.Bool(t, cfg.Enabled()).False()

	cache, closer, err := cfg.NewCache(context.Background())
	gt.NoError(t, err)
	gt.Value(t, cache).Equal(nil)
	closer()
}

func TestRedis_InvalidTTL(t *testing.T) {
	cfg := config.Redis{Addr: "localhost:6379", TTL: 0}
	_, _, err := cfg.NewCache(context.Background())
	gt.Error(t, err)
}

func TestFirestore_Disabled(t *testing.T) {
	cfg := config.Firestore{}
	recorder, closer, err := cfg.NewRecorder(context.Background(), &config.GCP{})
	gt.NoError(t, err)
	gt.Value(t, recorder).Equal(nil)
	closer()
}

func TestGCP_ClientOptions(t *testing.T) {
	gt.A(t, (&config.GCP{}).ClientOptions()).Length(0)
	gt.A(t, (&config.GCP{CredentialsFile: "key.json"}).ClientOptions()).Length(1)
}

func TestGemini_Disabled(t *testing.T) {
	client, err := (&config.Gemini{}).NewLLMClient(context.Background())
	gt.NoError(t, err)
	gt.Value(t, client).Equal(nil)
}

func TestSlack_Validate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "disabled", url: ""},
		{name: "valid", url: "https://hooks.slack.com/services/T000/B000/XXXX"},
		{name: "plain http", url: "http://hooks.slack.com/services/T000/B000/XXXX", wantErr: true},
		{name: "relative", url: "hooks.slack.com/services", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&config.Slack{WebhookURL: tt.url}).Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestSentry_Disabled(t *testing.T) {
	enabled, err := (&config.Sentry{}).Configure()
	gt.NoError(t, err)
	gt.Bool(t, enabled).False()
}
