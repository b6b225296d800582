package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgportal/pkg/composables"
)

func loggerFromContext(ctx context.Context) *logrus.Entry {
	log, err := composables.UseLogger(ctx)
	if err != nil {
		return nil
	}
	return log
}

func logWithFields(ctx context.Context, level logrus.Level, msg string, fields logrus.Fields) {
	logger := loggerFromContext(ctx)
	if logger == nil {
		return
	}
	logger.WithFields(fields).Log(level, msg)
}
