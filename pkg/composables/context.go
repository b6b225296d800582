package composables

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

var ErrNoLogger = errors.New("logger not found")

type (
	adminKey  struct{}
	loggerKey struct{}
)

// WithAdmin marks the caller as an administrator (or explicitly not one).
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

// IsAdmin reports the flag set by WithAdmin; unset means false.
func IsAdmin(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(adminKey{}).(bool)
	return v
}

// WithLogger stores a logger for services called with ctx. Both *logrus.Entry
// and *logrus.Logger are accepted by UseLogger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// UseLogger returns the logger from the context.
func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	if ctx == nil {
		return nil, ErrNoLogger
	}
	switch typed := ctx.Value(loggerKey{}).(type) {
	case *logrus.Entry:
		if typed != nil {
			return typed, nil
		}
	case *logrus.Logger:
		if typed != nil {
			return logrus.NewEntry(typed), nil
		}
	}
	return nil, ErrNoLogger
}
