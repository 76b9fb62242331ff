package controllers

import (
	"net/http"

	"github.com/invenx-app/invenx-backend/api/responses"
	"github.com/invenx-app/invenx-backend/api/validators"
	"github.com/invenx-app/invenx-backend/internal/connectivity"
	"github.com/invenx-app/invenx-backend/internal/syncqueue"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

type connectivityRequest struct {
	Online *bool `json:"online" validate:"required"`
}

// SyncStatus reports the connectivity flag and queue depth.
func SyncStatus(monitor *connectivity.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, monitor.Status(r.Context()))
	}
}

// ListPendingSync returns the queued offline mutations in arrival order.
func ListPendingSync(queue syncqueue.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, queue.PendingSyncItems(r.Context()))
	}
}

// SetConnectivity pushes a connectivity transition from the device shell.
func SetConnectivity(monitor *connectivity.Monitor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req connectivityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed := monitor.SetOnline(r.Context(), *req.Online)
		responses.WriteSuccess(w, map[string]bool{
			"online":  *req.Online,
			"changed": changed,
		})
	}
}
