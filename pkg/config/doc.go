// Package config loads environment-based configuration structs for the
// authkit packages. It combines a one-time .env bootstrap (via godotenv)
// with struct parsing through github.com/caarlos0/env field tags.
//
// # Usage
//
//	var cfg authstate.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// Or for configuration the application cannot start without:
//
//	var cfg tokenstore.Config
//	config.MustLoad(&cfg)
//
// The default .env file is loaded at most once per process; a missing
// file is not an error.
package config
