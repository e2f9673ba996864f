package payments

import "context"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Gateway непрозрачная платежная возможность: блокировка, списание, отмена и возврат
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error)
	Capture(ctx context.Context, authorizationID string, amount int64) error
	Void(ctx context.Context, authorizationID string) error
	Refund(ctx context.Context, authorizationID string, amount int64) error
}

var (
	_ Gateway = (*StripeGateway)(nil)
	_ Gateway = (*FakeGateway)(nil)
)
