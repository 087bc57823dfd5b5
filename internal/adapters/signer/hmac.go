package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/DanielPopoola/checkout-link-gateway/internal/config"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/ports"
)

// HMACSigner signs with HMAC-SHA256 keyed by the provider secret. The secret
// is also the last segment of the signed message.
type HMACSigner struct {
	secretKey []byte
}

var _ ports.IntegritySigner = (*HMACSigner)(nil)

func NewHMACSigner(cfg config.ProviderConfig) *HMACSigner {
	return &HMACSigner{secretKey: []byte(cfg.SecretKey)}
}

// Sign returns the lowercase hex digest of the integrity string.
func (s *HMACSigner) Sign(orderID, amount, currency string) string {
	return hex.EncodeToString(s.sum(orderID, amount, currency))
}

// Verify checks a hex signature in constant time.
func (s *HMACSigner) Verify(orderID, amount, currency, signature string) bool {
	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(s.sum(orderID, amount, currency), sigBytes)
}

func (s *HMACSigner) sum(orderID, amount, currency string) []byte {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(domain.IntegrityString(orderID, amount, currency, string(s.secretKey))))
	return mac.Sum(nil)
}
