package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/printdrop/pkg/audit"
)

// MockWriter is a mock implementation of audit.Writer
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Store(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type ctxKey string

func fromCtx(key ctxKey) func(context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		v, ok := ctx.Value(key).(string)
		return v, ok
	}
}

func TestLogger_Record(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.FixedZone("CET", 3600))

	t.Run("fills request id, ip and time", func(t *testing.T) {
		t.Parallel()
		w := new(MockWriter)
		w.On("Store", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
			return e.RequestID == "req-1" &&
				e.IP == "203.0.113.7" &&
				e.Time.Equal(fixed) &&
				e.Time.Location() == time.UTC &&
				e.Code == "upload_requires_token"
		})).Return(nil)

		l := audit.NewLogger(w,
			audit.WithRequestIDExtractor(fromCtx("rid")),
			audit.WithIPExtractor(fromCtx("ip")),
			audit.WithClock(func() time.Time { return fixed }),
		)

		ctx := context.WithValue(context.WithValue(context.Background(), ctxKey("rid"), "req-1"), ctxKey("ip"), "203.0.113.7")
		require.NoError(t, l.Record(ctx, audit.Event{Status: 403, Code: "upload_requires_token"}))
		w.AssertExpectations(t)
	})

	t.Run("explicit fields win over context", func(t *testing.T) {
		t.Parallel()
		w := new(MockWriter)
		w.On("Store", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
			return e.RequestID == "explicit" && e.IP == "198.51.100.1"
		})).Return(nil)

		l := audit.NewLogger(w,
			audit.WithRequestIDExtractor(fromCtx("rid")),
			audit.WithIPExtractor(fromCtx("ip")),
		)
		ctx := context.WithValue(context.Background(), ctxKey("rid"), "from-ctx")
		require.NoError(t, l.Record(ctx, audit.Event{RequestID: "explicit", IP: "198.51.100.1", Status: 201, Code: audit.CodeOK}))
		w.AssertExpectations(t)
	})

	t.Run("invalid event is not stored", func(t *testing.T) {
		t.Parallel()
		w := new(MockWriter)
		l := audit.NewLogger(w)

		err := l.Record(context.Background(), audit.Event{Status: 400})
		assert.ErrorIs(t, err, audit.ErrEventValidation)

		err = l.Record(context.Background(), audit.Event{Code: "missing_image"})
		assert.ErrorIs(t, err, audit.ErrEventValidation)

		w.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("storage error is returned", func(t *testing.T) {
		t.Parallel()
		w := new(MockWriter)
		w.On("Store", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		err := audit.NewLogger(w).Record(context.Background(), audit.Event{Status: 500, Code: "cannot_save_image"})
		assert.EqualError(t, err, "disk full")
	})

	t.Run("nil storage panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewLogger(nil) })
	})
}

func TestEvent_Success(t *testing.T) {
	t.Parallel()
	assert.True(t, audit.Event{Code: audit.CodeOK}.Success())
	assert.False(t, audit.Event{Code: "invalid_json"}.Success())
}
