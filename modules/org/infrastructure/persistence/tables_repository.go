package persistence

import (
	"context"

	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/pkg/kvstore"
)

// TablesRepository keeps each configuration table in its own slot so that a
// change to one never rewrites the others.
type TablesRepository struct {
	store kvstore.Store
}

func NewTablesRepository(store kvstore.Store) *TablesRepository {
	return &TablesRepository{store: store}
}

func (r *TablesRepository) Load(ctx context.Context) (orgconfig.Tables, error) {
	var (
		t   orgconfig.Tables
		err error
	)
	if t.Grouping, err = loadSlot[orgconfig.Grouping](ctx, r.store, kvstore.SlotGrouping); err != nil {
		return orgconfig.Tables{}, err
	}
	if t.SortOrder, err = loadSlot[orgconfig.SortOrder](ctx, r.store, kvstore.SlotSortOrder); err != nil {
		return orgconfig.Tables{}, err
	}
	if t.Leadership, err = loadSlot[orgconfig.Leadership](ctx, r.store, kvstore.SlotLeadership); err != nil {
		return orgconfig.Tables{}, err
	}
	if t.CrossUnit, err = loadSlot[orgconfig.CrossUnit](ctx, r.store, kvstore.SlotCrossUnit); err != nil {
		return orgconfig.Tables{}, err
	}
	return t, nil
}

func (r *TablesRepository) SaveGrouping(ctx context.Context, g orgconfig.Grouping) error {
	return saveSlot(ctx, r.store, kvstore.SlotGrouping, nonNil(g))
}

func (r *TablesRepository) SaveSortOrder(ctx context.Context, s orgconfig.SortOrder) error {
	return saveSlot(ctx, r.store, kvstore.SlotSortOrder, nonNil(s))
}

func (r *TablesRepository) SaveLeadership(ctx context.Context, l orgconfig.Leadership) error {
	return saveSlot(ctx, r.store, kvstore.SlotLeadership, nonNil(l))
}

func (r *TablesRepository) SaveCrossUnit(ctx context.Context, c orgconfig.CrossUnit) error {
	return saveSlot(ctx, r.store, kvstore.SlotCrossUnit, nonNil(c))
}

// nonNil makes an empty table encode as {} rather than null.
func nonNil[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
