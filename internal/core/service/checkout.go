package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/DanielPopoola/checkout-link-gateway/internal/config"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/ports"
)

// QueryParam is one key/value pair of the checkout URL. A slice of them keeps
// the order the provider documents, which url.Values would sort away.
type QueryParam struct {
	Key   string
	Value string
}

type CheckoutService struct {
	signer   ports.IntegritySigner
	provider config.ProviderConfig
}

func NewCheckoutService(signer ports.IntegritySigner, provider config.ProviderConfig) *CheckoutService {
	return &CheckoutService{
		signer:   signer,
		provider: provider,
	}
}

// CreateLink signs the request and returns the hosted checkout URL for it.
// Identical requests always yield identical links.
func (s *CheckoutService) CreateLink(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewInternalError(err)
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, domain.NewMissingRequiredFieldError(missing...)
	}

	amount := req.Amount.String()
	currency := s.provider.Currency
	signature := s.signer.Sign(req.OrderID, amount, currency)

	params := []QueryParam{
		{Key: domain.ParamOrderID, Value: req.OrderID},
		{Key: domain.ParamCurrency, Value: currency},
		{Key: domain.ParamAmount, Value: amount},
		{Key: domain.ParamAPIKey, Value: s.provider.PublicKey},
		{Key: domain.ParamIntegritySignature, Value: signature},
		{Key: domain.ParamRedirectionURL, Value: req.RedirectionURL},
	}
	if s.provider.ForwardDescription && req.Description != "" {
		params = append(params, QueryParam{Key: domain.ParamDescription, Value: req.Description})
	}
	params = append(params, QueryParam{Key: domain.ParamRenderMode, Value: s.provider.RenderMode})

	redirectURL, err := BuildRedirectURL(s.provider.BaseURL, params)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	return &domain.CheckoutLink{
		OrderID:   req.OrderID,
		Amount:    amount,
		Currency:  currency,
		Signature: signature,
		URL:       redirectURL,
	}, nil
}

// BuildRedirectURL appends params to baseURL in the given order, after any
// query the base URL already carries.
func BuildRedirectURL(baseURL string, params []QueryParam) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid checkout base url %q: scheme and host are required", baseURL)
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range params {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(formEscape(p.Value))
	}
	u.RawQuery = b.String()

	return u.String(), nil
}

// formEscape encodes with the application/x-www-form-urlencoded set used by
// browser URLSearchParams, which differs from url.QueryEscape only on '~'
// and '*'.
func formEscape(s string) string {
	return formEscapeReplacer.Replace(url.QueryEscape(s))
}

var formEscapeReplacer = strings.NewReplacer("~", "%7E", "%2A", "*")
