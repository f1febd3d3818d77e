// Package logger builds structured slog loggers for authkit packages and
// the applications embedding them. It provides a small factory with
// json/text formats plus attribute helpers for the values this toolkit
// logs most: errors, users, states and events.
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormat(),
//	)
//	machine := authstate.New(authstate.WithLogger(log))
package logger
