package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/invenx-app/invenx-backend/api/responses"
	"github.com/invenx-app/invenx-backend/internal/ledger"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	pkgerrors "github.com/invenx-app/invenx-backend/pkg/errors"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

// ListHistory returns the mutation audit trail, newest first. An optional
// limit query parameter truncates the tail; productId filters to one product.
func ListHistory(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history := svc.History(r.Context())

		if productID := strings.TrimSpace(r.URL.Query().Get("productId")); productID != "" {
			filtered := make([]models.HistoryEntry, 0, len(history))
			for _, entry := range history {
				if entry.ProductID == productID {
					filtered = append(filtered, entry)
				}
			}
			history = filtered
		}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			if limit < len(history) {
				history = history[:limit]
			}
		}

		responses.WriteSuccess(w, history)
	}
}
