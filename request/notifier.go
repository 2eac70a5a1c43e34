package request

import (
	"github.com/rs/zerolog"
)

// Notifier shows a failure message to the user.
type Notifier interface {
	Error(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Error(msg string) {
	f(msg)
}

// LogNotifier writes messages to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Error(msg string) {
	n.Logger.Error().Str("msg", msg).Msg("Request failed")
}
