// Package kvstore persists opaque blobs under a small fixed set of slot names.
package kvstore

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

type Slot string

const (
	SlotRoster     Slot = "roster"
	SlotGrouping   Slot = "grouping"
	SlotSortOrder  Slot = "sort_order"
	SlotLeadership Slot = "leadership"
	SlotCrossUnit  Slot = "cross_unit"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Store reads and writes whole slot values. Get reports false for a slot that
// was never written.
type Store interface {
	Get(ctx context.Context, slot Slot) ([]byte, bool, error)
	Put(ctx context.Context, slot Slot, value []byte) error
}

type Options struct {
	Backend  string
	Dir      string
	RedisURL string
	Prefix   string
}

// New builds the backend named by opts.Backend: memory, file or redis.
func New(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Dir)
	case "redis":
		ro, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return NewRedis(redis.NewClient(ro), opts.Prefix), nil
	default:
		return nil, errors.Wrap(ErrUnknownBackend, opts.Backend)
	}
}
