package retry

import (
	"context"
	"errors"
	"time"
)

// Config задает стратегию повторов с экспоненциальной задержкой.
// Задержка перед попыткой N равна BaseDelay * 2^(N-1), без джиттера.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// OnRetryFunc вызывается после неудачной попытки, перед паузой
type OnRetryFunc func(attempt int, delay time.Duration, err error)

// PermanentError помечает ошибку, которую нет смысла повторять
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent оборачивает ошибку так, что Do прекращает попытки немедленно
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Do выполняет fn до первого успеха, но не более cfg.MaxAttempts раз.
// Возвращает ошибку последней попытки. Пауза между попытками уважает контекст.
func Do(ctx context.Context, cfg Config, onRetry OnRetryFunc, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(lastErr, &perm) {
			return perm.Err
		}

		if attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, delay, lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
