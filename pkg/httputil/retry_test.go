package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent failure")

func TestRetryWithBackoff_SucceedsOnFirstTry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("error = %v, want %v", err, errPermanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (non-retryable errors shouldn't retry)", calls)
	}
}

func TestRetry_RetryableErrorEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: errors.New("connection refused")}
		}
		return nil
	})
	if err != nil {
		t.Errorf("should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	retryable := &RetryableError{Err: errors.New("still down")}
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return retryable
	})
	if err != retryable {
		t.Errorf("error = %v, want %v", err, retryable)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Second, func() error {
		return &RetryableError{Err: errors.New("down")}
	})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
