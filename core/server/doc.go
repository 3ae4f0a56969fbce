// Package server wraps http.Server with graceful shutdown, environment
// configuration and errgroup integration.
//
// # Basic Usage
//
//	srv := server.New(":3000",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		return err
//	}
//
// # Configuration
//
// Config is loaded with package config:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Environment variables: SERVER_ADDR, SERVER_READ_TIMEOUT,
// SERVER_WRITE_TIMEOUT, SERVER_IDLE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT,
// SERVER_MAX_HEADER_BYTES, SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE.
//
// The write timeout defaults to zero because event-stream responses never
// complete on their own. Request contexts derive from the context passed to
// Start, so open streams end as soon as it is canceled and shutdown does not
// wait for them.
package server
