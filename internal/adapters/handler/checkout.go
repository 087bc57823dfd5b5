package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/go-playground/validator"
)

// HandleCheckout turns a storefront order into a signed hosted-checkout URL.
//
//	POST /  {"orderId": "ORD-1", "amount": 100, "redirectionUrl": "https://...", "description": "..."}
//	200     {"success": true, "redirectUrl": "https://checkout.bold.co/payment/initiate?..."}
func (h *CheckoutHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.validateRequest(req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	link, err := h.checkoutService.CreateLink(r.Context(), req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, CheckoutResponse{
		Success:     true,
		RedirectURL: link.URL,
	})
}

// decodeRequest reads the JSON body. Syntax errors and a literal null body
// are internal errors. A top-level array, string or number carries no fields,
// so it decodes to an empty request and fails validation. A wrongly typed
// field inside an object is a client error.
func (h *CheckoutHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (domain.CheckoutRequest, error) {
	var req domain.CheckoutRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, domain.NewRequestTooLargeError(maxErr.Limit)
		}
		return req, domain.NewInternalError(fmt.Errorf("unable to read request body: %w", err))
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return req, domain.NewInternalError(errors.New("request body is null"))
	}

	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field == "" {
				return domain.CheckoutRequest{}, nil
			}
			return req, domain.NewInvalidFieldError(typeErr.Field, err)
		}
		return req, domain.NewInternalError(fmt.Errorf("invalid request body: %w", err))
	}

	return req, nil
}

func (h *CheckoutHandler) validateRequest(req domain.CheckoutRequest) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domain.NewInternalError(err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	return domain.NewMissingRequiredFieldError(fields...)
}
