package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// AuthorizationStatus состояние авторизации в FakeGateway
type AuthorizationStatus string

const (
	StatusAuthorized AuthorizationStatus = "authorized"
	StatusCaptured   AuthorizationStatus = "captured"
	StatusVoided     AuthorizationStatus = "voided"
	StatusRefunded   AuthorizationStatus = "refunded"
)

type fakeAuthorization struct {
	amount int64
	status AuthorizationStatus
}

// FakeGateway платежный шлюз в памяти для локального запуска и тестов.
// Поля Fail* включают отказ соответствующей операции.
type FakeGateway struct {
	mu             sync.Mutex
	authorizations map[string]*fakeAuthorization

	FailAuthorize bool
	FailCapture   bool
	FailVoid      bool
	FailRefund    bool
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{authorizations: make(map[string]*fakeAuthorization)}
}

func (g *FakeGateway) Authorize(_ context.Context, req AuthorizeRequest) (*Authorization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailAuthorize {
		return nil, fmt.Errorf("%w: injected failure", ErrAuthorizeFailed)
	}

	id := "fake_pi_" + uuid.NewString()
	g.authorizations[id] = &fakeAuthorization{amount: req.Amount, status: StatusAuthorized}

	return &Authorization{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *FakeGateway) Capture(_ context.Context, authorizationID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	auth, ok := g.authorizations[authorizationID]
	if !ok {
		return fmt.Errorf("%w: %w", ErrCaptureFailed, ErrAuthorizationNotFound)
	}
	if g.FailCapture {
		return fmt.Errorf("%w: injected failure", ErrCaptureFailed)
	}
	if auth.status != StatusAuthorized {
		return fmt.Errorf("%w: authorization is %s", ErrCaptureFailed, auth.status)
	}
	if amount > auth.amount {
		return fmt.Errorf("%w: amount %d exceeds authorized %d", ErrCaptureFailed, amount, auth.amount)
	}

	auth.status = StatusCaptured
	return nil
}

func (g *FakeGateway) Void(_ context.Context, authorizationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	auth, ok := g.authorizations[authorizationID]
	if !ok {
		return fmt.Errorf("%w: %w", ErrVoidFailed, ErrAuthorizationNotFound)
	}
	if g.FailVoid {
		return fmt.Errorf("%w: injected failure", ErrVoidFailed)
	}
	switch auth.status {
	case StatusVoided:
		return nil
	case StatusAuthorized:
		auth.status = StatusVoided
		return nil
	default:
		return fmt.Errorf("%w: authorization is %s", ErrVoidFailed, auth.status)
	}
}

func (g *FakeGateway) Refund(_ context.Context, authorizationID string, _ int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	auth, ok := g.authorizations[authorizationID]
	if !ok {
		return fmt.Errorf("%w: %w", ErrRefundFailed, ErrAuthorizationNotFound)
	}
	if g.FailRefund {
		return fmt.Errorf("%w: injected failure", ErrRefundFailed)
	}
	if auth.status != StatusCaptured {
		return fmt.Errorf("%w: authorization is %s", ErrRefundFailed, auth.status)
	}

	auth.status = StatusRefunded
	return nil
}

// Status возвращает состояние авторизации, пустую строку для неизвестной
func (g *FakeGateway) Status(authorizationID string) AuthorizationStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if auth, ok := g.authorizations[authorizationID]; ok {
		return auth.status
	}
	return ""
}

// SetFailures переключает инъекцию отказов под блокировкой
func (g *FakeGateway) SetFailures(authorize, capture, void, refund bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.FailAuthorize = authorize
	g.FailCapture = capture
	g.FailVoid = void
	g.FailRefund = refund
}
