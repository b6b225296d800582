package composables

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestAdminFlag(t *testing.T) {
	ctx := context.Background()
	require.False(t, IsAdmin(ctx))
	require.True(t, IsAdmin(WithAdmin(ctx, true)))
	require.False(t, IsAdmin(WithAdmin(WithAdmin(ctx, true), false)))
}

func TestUseLogger(t *testing.T) {
	_, err := UseLogger(context.Background())
	require.True(t, errors.Is(err, ErrNoLogger))

	entry := logrus.NewEntry(logrus.New()).WithField("cmd", "tree")
	got, err := UseLogger(WithLogger(context.Background(), entry))
	require.NoError(t, err)
	require.Same(t, entry, got)

	got, err = UseLogger(context.WithValue(context.Background(), loggerKey{}, logrus.New()))
	require.NoError(t, err)
	require.NotNil(t, got)
}
