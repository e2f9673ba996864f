package fakes

import (
	"context"
	"sync"
)

// TxManager выполняет транзакции строго по одной, что соответствует
// advisory-блокировке мастера в Postgres
type TxManager struct {
	mu sync.Mutex
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
