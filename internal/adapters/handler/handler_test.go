package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/signer"
	"github.com/DanielPopoola/checkout-link-gateway/internal/config"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheckoutService struct {
	createLinkFn func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error)
	calls        int
}

func (m *mockCheckoutService) CreateLink(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
	m.calls++
	return m.createLinkFn(ctx, req)
}

func testProvider() config.ProviderConfig {
	return config.ProviderConfig{
		SecretKey:  "K",
		PublicKey:  "pub-key",
		BaseURL:    config.DefaultBaseURL,
		Currency:   config.DefaultCurrency,
		RenderMode: config.DefaultRenderMode,
	}
}

// newTestRouter wires the real signer and service behind the full middleware chain.
func newTestRouter(t *testing.T, logs io.Writer) http.Handler {
	t.Helper()
	if logs == nil {
		logs = io.Discard
	}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	provider := testProvider()
	svc := service.NewCheckoutService(signer.NewHMACSigner(provider), provider)
	h := NewCheckoutHandler(svc, 1<<20, logger)

	return NewRouter(h, logger, RouterOptions{})
}

func doRequest(h http.Handler, method, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func assertCORS(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHandleCheckout_Success(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://store.example/thanks"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assertCORS(t, rr)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	mac := hmac.New(sha256.New, []byte("K"))
	mac.Write([]byte("ORD-1100USDK"))
	wantSig := hex.EncodeToString(mac.Sum(nil))

	assert.Contains(t, resp.RedirectURL, "data-integrity-signature="+wantSig)
	assert.Contains(t, resp.RedirectURL, "data-order-id=ORD-1")

	u, err := url.Parse(resp.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "checkout.bold.co", u.Host)
	assert.Equal(t, "/payment/initiate", u.Path)
	assert.Equal(t, "https://store.example/thanks", u.Query().Get("data-redirection-url"))
}

func TestHandleCheckout_Deterministic(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{"orderId":"ORD-9","amount":25.75,"redirectionUrl":"https://store.example/thanks","description":"gift"}`

	first := doRequest(router, http.MethodPost, body)
	second := doRequest(router, http.MethodPost, body)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHandleCheckout_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing string
	}{
		{"missing order id", `{"amount":100,"redirectionUrl":"https://x"}`, "orderId"},
		{"empty order id", `{"orderId":"","amount":100,"redirectionUrl":"https://x"}`, "orderId"},
		{"missing amount", `{"orderId":"ORD-1","redirectionUrl":"https://x"}`, "amount"},
		{"null amount", `{"orderId":"ORD-1","amount":null,"redirectionUrl":"https://x"}`, "amount"},
		{"zero amount", `{"orderId":"ORD-1","amount":0,"redirectionUrl":"https://x"}`, "amount"},
		{"missing redirection url", `{"orderId":"ORD-1","amount":100}`, "redirectionUrl"},
		{"empty object", `{}`, "orderId, amount, redirectionUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			router := newTestRouter(t, &logs)

			rr := doRequest(router, http.MethodPost, tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assertCORS(t, rr)
			assert.Contains(t, decodeError(t, rr), tt.missing)
			assert.NotContains(t, rr.Body.String(), "redirectUrl")
			assert.NotContains(t, logs.String(), `"K"`)
		})
	}
}

func TestHandleCheckout_DescriptionOptional(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://x","description":"Two tickets"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "data-description")
}

func TestHandleCheckout_InvalidFieldType(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":"a lot","redirectionUrl":"https://x"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid value for field: amount", decodeError(t, rr))
}

func TestHandleCheckout_MalformedJSON(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(t, &logs)

	rr := doRequest(router, http.MethodPost, `{"orderId":`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
	assert.Contains(t, logs.String(), "error processing request")
	assert.Contains(t, logs.String(), "invalid request body")
}

func TestHandleCheckout_EmptyBody(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doRequest(router, http.MethodPost, "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
}

func TestHandleCheckout_NullBody(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(t, &logs)

	rr := doRequest(router, http.MethodPost, " null\n")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
	assert.Contains(t, logs.String(), "request body is null")
}

func TestHandleCheckout_NonObjectBody(t *testing.T) {
	for _, body := range []string{`[]`, `[1,2]`, `"ORD-1"`, `42`, `true`} {
		t.Run(body, func(t *testing.T) {
			router := newTestRouter(t, nil)

			rr := doRequest(router, http.MethodPost, body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assertCORS(t, rr)
			assert.Equal(t, "Missing required fields: orderId, amount, redirectionUrl", decodeError(t, rr))
		})
	}
}

func TestHandleCheckout_BodyTooLarge(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := testProvider()
	h := NewCheckoutHandler(service.NewCheckoutService(signer.NewHMACSigner(provider), provider), 16, logger)
	router := NewRouter(h, logger, RouterOptions{})

	rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://store.example/thanks"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assertCORS(t, rr)
}

func TestHandleCheckout_ServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("internal error is hidden", func(t *testing.T) {
		mockSvc := &mockCheckoutService{
			createLinkFn: func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
				return nil, errors.New("secret-bearing failure")
			},
		}
		router := NewRouter(NewCheckoutHandler(mockSvc, 1<<20, logger), logger, RouterOptions{})

		rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://x"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal Server Error", decodeError(t, rr))
		assert.NotContains(t, rr.Body.String(), "secret-bearing")
	})

	t.Run("domain client error keeps its message", func(t *testing.T) {
		mockSvc := &mockCheckoutService{
			createLinkFn: func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
				return nil, domain.NewMissingRequiredFieldError("amount")
			},
		}
		router := NewRouter(NewCheckoutHandler(mockSvc, 1<<20, logger), logger, RouterOptions{})

		rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://x"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing required fields: amount", decodeError(t, rr))
	})

	t.Run("panic is recovered with cors headers", func(t *testing.T) {
		mockSvc := &mockCheckoutService{
			createLinkFn: func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
				panic("unexpected")
			},
		}
		router := NewRouter(NewCheckoutHandler(mockSvc, 1<<20, logger), logger, RouterOptions{})

		rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://x"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assertCORS(t, rr)
		assert.Equal(t, "Internal Server Error", decodeError(t, rr))
	})
}

func TestHandleCheckout_InvalidRequestSkipsService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockSvc := &mockCheckoutService{
		createLinkFn: func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := NewRouter(NewCheckoutHandler(mockSvc, 1<<20, logger), logger, RouterOptions{})

	rr := doRequest(router, http.MethodPost, `{"orderId":"ORD-1","redirectionUrl":"https://x"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, mockSvc.calls)
}

func TestHandlePreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, body := range []string{"", `{"orderId":"ORD-1"}`, `not json`} {
		rr := doRequest(router, http.MethodOptions, body)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assertCORS(t, rr)
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rr := doRequest(router, method, `{"orderId":"ORD-1","amount":100,"redirectionUrl":"https://x"}`)

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assertCORS(t, rr)
			assert.Equal(t, "Method not allowed", decodeError(t, rr))
		})
	}
}

func TestHandleNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/elsewhere", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assertCORS(t, rr)
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "req-abc", rr.Header().Get("X-Request-ID"))
}
