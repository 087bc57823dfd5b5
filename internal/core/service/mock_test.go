package service

import "sync"

// MockSigner records every call and returns SignFn's result, or a fixed
// signature when SignFn is nil.
type MockSigner struct {
	mu     sync.Mutex
	calls  [][3]string
	SignFn func(orderID, amount, currency string) string
}

func (m *MockSigner) Sign(orderID, amount, currency string) string {
	m.mu.Lock()
	m.calls = append(m.calls, [3]string{orderID, amount, currency})
	m.mu.Unlock()

	if m.SignFn != nil {
		return m.SignFn(orderID, amount, currency)
	}
	return "mock-signature"
}

func (m *MockSigner) Calls() [][3]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][3]string(nil), m.calls...)
}
