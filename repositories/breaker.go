package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personal-task-manager/logging"
	"personal-task-manager/models"

	"github.com/sony/gobreaker"
)

// BreakerStore guards a Store with a circuit breaker. Only infrastructure failures count
// towards tripping; ErrNotFound, ErrDuplicateUsername and cancelled requests do not.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

type BreakerSettings struct {
	// ConsecutiveFailures is the failure streak that opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe is let through.
	OpenTimeout time.Duration
}

var DefaultBreakerSettings = BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: 5 * time.Second}

func NewBreakerStore(next Store, settings BreakerSettings) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "StoreCB",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, context.Canceled)
}

// State exposes the breaker state for health reporting.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("store unavailable: %w", err)
		}
		return zero, err
	}
	return res.(T), nil
}

func executeErr(b *BreakerStore, fn func() error) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (b *BreakerStore) Migrate(ctx context.Context) error {
	return b.next.Migrate(ctx)
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	return executeErr(b, func() error { return b.next.Ping(ctx) })
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func (b *BreakerStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return execute(b, func() (*models.User, error) {
		return b.next.CreateUser(ctx, username, passwordHash)
	})
}

func (b *BreakerStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return execute(b, func() (*models.User, error) {
		return b.next.GetUserByUsername(ctx, username)
	})
}

func (b *BreakerStore) CreateTask(ctx context.Context, task *models.Task) error {
	return executeErr(b, func() error { return b.next.CreateTask(ctx, task) })
}

func (b *BreakerStore) ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	return execute(b, func() ([]models.Task, error) {
		return b.next.ListTasksByUser(ctx, userID)
	})
}

func (b *BreakerStore) GetTaskForUser(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	return execute(b, func() (*models.Task, error) {
		return b.next.GetTaskForUser(ctx, taskID, userID)
	})
}

func (b *BreakerStore) CompleteTask(ctx context.Context, taskID, userID int64) error {
	return executeErr(b, func() error { return b.next.CompleteTask(ctx, taskID, userID) })
}

func (b *BreakerStore) DeleteTask(ctx context.Context, taskID, userID int64) error {
	return executeErr(b, func() error { return b.next.DeleteTask(ctx, taskID, userID) })
}
