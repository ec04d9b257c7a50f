package mocks

import (
	"context"
)

// MockTxRunner is a pass-through implementation of port.TxRunner for tests:
// it invokes fn with the same ctx, without a real transaction.
type MockTxRunner struct {
	// Err, when set, is returned without invoking fn.
	Err error
}

func (m *MockTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
