package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
)

type CheckoutService interface {
	CreateLink(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error)
}

type CheckoutHandler struct {
	checkoutService CheckoutService
	validate        *validator.Validate
	logger          *slog.Logger
	maxBodyBytes    int64
}

func NewCheckoutHandler(checkoutService CheckoutService, maxBodyBytes int64, logger *slog.Logger) *CheckoutHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	return &CheckoutHandler{
		checkoutService: checkoutService,
		validate:        validate,
		logger:          logger,
		maxBodyBytes:    maxBodyBytes,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCheckout)
	r.Options("/", h.HandlePreflight)
	r.Get("/healthz", h.HandleHealth)

	r.MethodNotAllowed(h.HandleMethodNotAllowed)
	r.NotFound(h.HandleNotFound)
}

// HandlePreflight answers CORS pre-flight requests without reading the body.
func (h *CheckoutHandler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondWithError(w, r, domain.NewMethodNotAllowedError(r.Method))
}

func (h *CheckoutHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.respondWithError(w, r, domain.NewNotFoundError(r.URL.Path))
}

func (h *CheckoutHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// jsonFieldName makes validation errors report the JSON names callers sent.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
