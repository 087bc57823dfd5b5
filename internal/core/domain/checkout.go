// Package domain defines the checkout link model shared by the service and its adapters.
package domain

import (
	"math"
	"strconv"
	"strings"
)

// Query parameter names expected by the hosted checkout page.
const (
	ParamOrderID            = "data-order-id"
	ParamCurrency           = "data-currency"
	ParamAmount             = "data-amount"
	ParamAPIKey             = "data-api-key"
	ParamIntegritySignature = "data-integrity-signature"
	ParamRedirectionURL     = "data-redirection-url"
	ParamDescription        = "data-description"
	ParamRenderMode         = "data-render-mode"
)

// Amount is the order total as sent by the storefront.
type Amount float64

// String renders the amount the way it is fed into the integrity signature:
// shortest decimal form with no trailing zeros ("100", "10.5"). Magnitudes of
// 1e21 and above, or below 1e-6, switch to exponent form with an unpadded
// exponent ("1e+21", "1.5e-7").
func (a Amount) String() string {
	f := float64(a)
	if abs := math.Abs(f); abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsZero reports whether the amount counts as absent. Zero is treated the
// same as a missing amount.
func (a Amount) IsZero() bool {
	return a == 0
}

// CheckoutRequest is the storefront's request for a payment link.
type CheckoutRequest struct {
	OrderID        string `json:"orderId" validate:"required"`
	Amount         Amount `json:"amount" validate:"required"`
	RedirectionURL string `json:"redirectionUrl" validate:"required"`
	Description    string `json:"description,omitempty"`
}

// MissingFields lists the required fields that are absent or falsy, in
// request order.
func (r CheckoutRequest) MissingFields() []string {
	var missing []string
	if r.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if r.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if r.RedirectionURL == "" {
		missing = append(missing, "redirectionUrl")
	}
	return missing
}

// CheckoutLink is a signed payment-initiation URL and the values it was built from.
type CheckoutLink struct {
	OrderID   string
	Amount    string
	Currency  string
	Signature string
	URL       string
}

// IntegrityString is the exact message the provider expects to be signed:
// order id, amount, currency and secret key concatenated without separators.
func IntegrityString(orderID, amount, currency, secretKey string) string {
	return orderID + amount + currency + secretKey
}
