package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/livefeed/core/server"
)

func hello() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
}

func waitReady(t *testing.T, srv *server.Server) string {
	t.Helper()
	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}
	return "http://" + srv.Addr()
}

func TestServer_Run(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, hello()))

	base := waitReady(t, srv)

	resp, err := http.Get(base)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	require.NoError(t, g.Wait())

	_, err = http.Get(base)
	assert.Error(t, err)
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, hello()) }()
	waitReady(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, hello()), server.ErrServerAlreadyRunning)
	require.NoError(t, srv.Stop())
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	srv := server.New("bad-address")
	err := srv.Start(context.Background(), hello())
	assert.ErrorIs(t, err, server.ErrListen)
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	assert.NoError(t, server.New(":0").Stop())
}

func TestServer_CancelEndsStreamingRequests(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	streaming := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	})

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(5*time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, streaming))

	base := waitReady(t, srv)
	resp, err := http.Get(base)
	require.NoError(t, err)
	defer resp.Body.Close()
	<-started

	begin := time.Now()
	cancel()
	require.NoError(t, g.Wait())
	assert.Less(t, time.Since(begin), 2*time.Second)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, server.DefaultAddr, srv.Addr())
	})

	t.Run("missing_address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("invalid_tls_files", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "/nonexistent/cert.pem"
		cfg.TLSKeyFile = "/nonexistent/key.pem"

		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})

	t.Run("options_override_config", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.Addr = "127.0.0.1:0"

		srv, err := server.NewFromConfig(cfg, server.WithShutdownTimeout(100*time.Millisecond))
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})
}
