package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
)

type CheckoutResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// respondWithError maps domain errors to status codes. Anything that is not a
// client error is logged and replaced by the generic internal message.
func (h *CheckoutHandler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError(err)
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case domain.ErrCodeMissingRequiredField, domain.ErrCodeInvalidField:
		status = http.StatusBadRequest
	case domain.ErrCodeMethodNotAllowed:
		status = http.StatusMethodNotAllowed
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeRequestTooLarge:
		status = http.StatusRequestEntityTooLarge
	}

	requestID := middleware.GetRequestID(r.Context())
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "error processing request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithJSON(w, status, ErrorResponse{Error: domain.MsgInternalError})
		return
	}

	h.logger.DebugContext(r.Context(), "request rejected",
		"request_id", requestID,
		"code", domainErr.Code,
		"status", status,
	)
	respondWithJSON(w, status, ErrorResponse{Error: domainErr.Message})
}
