package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// State records an authentication state under the key "state".
func State(state any) slog.Attr {
	return slog.Any("state", state)
}

// Event records a transition event under the key "event".
func Event(event any) slog.Attr {
	return slog.Any("event", event)
}
