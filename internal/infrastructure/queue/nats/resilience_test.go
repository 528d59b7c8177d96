package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := map[string]struct {
		err           error
		retryable     bool
		recordFailure bool
	}{
		"context canceled":  {context.Canceled, false, false},
		"deadline":          {context.DeadlineExceeded, false, false},
		"no servers":        {nats.ErrNoServers, true, true},
		"timeout":           {nats.ErrTimeout, true, true},
		"connection closed": {nats.ErrConnectionClosed, true, true},
		"disconnected":      {nats.ErrDisconnected, true, true},
		"other":             {errors.New("bad subject"), false, true},
	}

	for name, tc := range cases {
		got := classifyNATSError(tc.err)
		if got.Retryable != tc.retryable || got.RecordFailure != tc.recordFailure {
			t.Errorf("%s: classification = %+v, want retryable=%v record=%v",
				name, got, tc.retryable, tc.recordFailure)
		}
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	if err := wrapTemporaryIfNeeded(nats.ErrNoServers); !domain.IsKind(err, domain.ErrTemporary) {
		t.Errorf("retryable error not wrapped as temporary: %v", err)
	}

	permanent := errors.New("bad subject")
	if err := wrapTemporaryIfNeeded(permanent); domain.IsKind(err, domain.ErrTemporary) {
		t.Errorf("permanent error wrongly wrapped as temporary: %v", err)
	}

	if wrapTemporaryIfNeeded(nil) != nil {
		t.Error("nil error must stay nil")
	}
}
