package http

import (
	"net/http"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, &model.HealthStatus{
		Status:  "healthy",
		Service: "ghfeed",
		Version: types.Version,
	}, http.StatusOK)
}
