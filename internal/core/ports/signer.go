package ports

// IntegritySigner produces the integrity signature the hosted checkout page
// checks before accepting a payment link.
type IntegritySigner interface {
	Sign(orderID, amount, currency string) string
}
