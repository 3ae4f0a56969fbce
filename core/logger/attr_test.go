package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/livefeed/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestPanic(t *testing.T) {
	t.Parallel()
	attr := logger.Panic("kaboom")
	require.Equal(t, "panic", attr.Key)
	assert.Equal(t, "kaboom", attr.Value.Any())

	assert.True(t, logger.Panic(nil).Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	d := 5 * time.Second
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestInterval(t *testing.T) {
	t.Parallel()
	attr := logger.Interval(time.Second)
	require.Equal(t, "interval", attr.Key)
	assert.Equal(t, time.Second, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

// ============================================================================
// Identifier Tests
// ============================================================================

func TestID(t *testing.T) {
	t.Parallel()

	attr := logger.ID("user_id", "123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	// slog.Any may convert int to int64 internally
	attr = logger.ID("count", 42)
	assert.EqualValues(t, 42, attr.Value.Any())

	assert.True(t, logger.ID("key", nil).Equal(slog.Attr{}))
}

func TestMessageAndSessionID(t *testing.T) {
	t.Parallel()

	attr := logger.MessageID("m-1")
	require.Equal(t, "message_id", attr.Key)
	assert.Equal(t, "m-1", attr.Value.String())
	assert.True(t, logger.MessageID("").Equal(slog.Attr{}))

	attr = logger.SessionID("s-1")
	require.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "s-1", attr.Value.String())
	assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
}

// ============================================================================
// Metadata Tests
// ============================================================================

func TestMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"component", logger.Component("broadcast"), "component", "broadcast"},
		{"event", logger.Event("tick"), "event", "tick"},
		{"version", logger.Version("1.0.0"), "version", "1.0.0"},
		{"transport", logger.Transport("sse"), "transport", "sse"},
		{"addr", logger.Addr(":8080"), "addr", ":8080"},
		{"remote_addr", logger.RemoteAddr("10.0.0.1:5000"), "remote_addr", "10.0.0.1:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.String())
		})
	}

	count := logger.Count("subscribers", 3)
	require.Equal(t, "subscribers", count.Key)
	assert.Equal(t, int64(3), count.Value.Int64())

	assert.True(t, logger.Key("k", nil).Equal(slog.Attr{}))
	assert.True(t, logger.RemoteAddr("").Equal(slog.Attr{}))
}
