package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgportal/pkg/composables"
	"github.com/iota-uz/orgportal/pkg/kvstore"
)

// loadSlot decodes a slot. A missing or undecodable value yields the zero T;
// the latter is logged and never returned as an error.
func loadSlot[T any](ctx context.Context, store kvstore.Store, slot kvstore.Slot) (T, error) {
	var out T
	raw, ok, err := store.Get(ctx, slot)
	if err != nil {
		return out, errors.Wrapf(err, "load %s", slot)
	}
	if !ok || len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		if log, lerr := composables.UseLogger(ctx); lerr == nil {
			log.WithFields(logrus.Fields{
				"slot":  string(slot),
				"bytes": len(raw),
			}).WithError(err).Warn("persistence: discarding malformed slot")
		}
		var zero T
		return zero, nil
	}
	return out, nil
}

func saveSlot(ctx context.Context, store kvstore.Store, slot kvstore.Slot, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", slot)
	}
	if err := store.Put(ctx, slot, raw); err != nil {
		return errors.Wrapf(err, "save %s", slot)
	}
	return nil
}
