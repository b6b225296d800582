package persistence

import (
	"context"

	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/pkg/kvstore"
)

type RosterRepository struct {
	store kvstore.Store
}

func NewRosterRepository(store kvstore.Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) Load(ctx context.Context) (employee.Roster, error) {
	roster, err := loadSlot[employee.Roster](ctx, r.store, kvstore.SlotRoster)
	if err != nil {
		return nil, err
	}
	for i := range roster {
		roster[i].Normalize()
	}
	return roster, nil
}

func (r *RosterRepository) Save(ctx context.Context, roster employee.Roster) error {
	if roster == nil {
		roster = employee.Roster{}
	}
	return saveSlot(ctx, r.store, kvstore.SlotRoster, roster)
}
