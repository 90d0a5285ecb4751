package logger

import "context"

// LoggerInterface is the subset of Logger the library packages depend on.
type LoggerInterface interface {
	Debugw(string, ...any)
	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)

	With(...any) LoggerInterface
	FromContext(context.Context) LoggerInterface
	SafeSync()
}
