package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

const (
	keyPrefix        = "booking_attempt:"
	maxUpdateRetries = 5
)

// Store хранилище попыток бронирования в redis.
// Ключ живет окно оплаты плюс ttl, после истечения попытка считается потерянной.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewStore создает хранилище попыток
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if client == nil {
		panic("attempt: redis client cannot be nil")
	}
	return &Store{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("salon-booking.storage.attempt"),
	}
}

// Create сохраняет новую попытку, ключом служит AuthorizationID
func (s *Store) Create(ctx context.Context, a *domain.BookingAttempt) error {
	ctx, span := s.tracer.Start(ctx, "attempt.create",
		trace.WithAttributes(attribute.String("authorization_id", a.AuthorizationID)))
	defer span.End()

	data, err := json.Marshal(toRecord(a))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	ok, err := s.redis.SetNX(ctx, attemptKey(a.AuthorizationID), data, s.keyTTL(a)).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: Create: %v", ErrRedis, err)
	}
	if !ok {
		return ErrAttemptExists
	}
	return nil
}

// Get загружает попытку по идентификатору авторизации
func (s *Store) Get(ctx context.Context, authorizationID string) (*domain.BookingAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "attempt.get",
		trace.WithAttributes(attribute.String("authorization_id", authorizationID)))
	defer span.End()

	data, err := s.redis.Get(ctx, attemptKey(authorizationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: Get: %v", ErrRedis, err)
	}

	return decode(data)
}

// Update атомарно применяет fn к попытке (WATCH/MULTI).
// Ошибка fn прерывает обновление без записи и возвращается как есть.
// При конкурентном изменении fn вызывается повторно на свежей версии.
func (s *Store) Update(ctx context.Context, authorizationID string, fn func(a *domain.BookingAttempt) error) (*domain.BookingAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "attempt.update",
		trace.WithAttributes(attribute.String("authorization_id", authorizationID)))
	defer span.End()

	key := attemptKey(authorizationID)
	var updated *domain.BookingAttempt

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrAttemptNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Update: %v", ErrRedis, err)
		}

		a, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}

		encoded, err := json.Marshal(toRecord(a))
		if err != nil {
			return fmt.Errorf("%w: Update: %v", ErrEncode, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = a
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.redis.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		span.RecordError(err)
		return nil, err
	}

	span.RecordError(ErrConflict)
	return nil, ErrConflict
}

func (s *Store) keyTTL(a *domain.BookingAttempt) time.Duration {
	ttl := s.ttl
	if !a.ExpiresAt.IsZero() {
		if window := time.Until(a.ExpiresAt); window > 0 {
			ttl += window
		}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return ttl
}

func decode(data []byte) (*domain.BookingAttempt, error) {
	var rec attemptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrEncode, err)
	}
	return rec.toDomain(), nil
}

func attemptKey(authorizationID string) string {
	return keyPrefix + authorizationID
}
