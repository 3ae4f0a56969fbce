// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (a missing file is fine) and
// uses the caarlos0/env library for parsing environment variables into
// struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/livefeed/core/config"
//
//	type FeedConfig struct {
//		Capacity int           `env:"BROADCAST_QUEUE_CAPACITY" envDefault:"100"`
//		Interval time.Duration `env:"GENERATOR_INTERVAL" envDefault:"1s"`
//	}
//
//	func main() {
//		var cfg FeedConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 FeedConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 FeedConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so package configs such as
// server.Config and stream.Config each get their own entry. A load that
// fails is not cached and is retried on the next call.
package config
