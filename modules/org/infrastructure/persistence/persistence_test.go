package persistence

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/pkg/composables"
	"github.com/iota-uz/orgportal/pkg/kvstore"
)

type failingStore struct{}

func (failingStore) Get(context.Context, kvstore.Slot) ([]byte, bool, error) {
	return nil, false, errors.New("store offline")
}

func (failingStore) Put(context.Context, kvstore.Slot, []byte) error {
	return errors.New("store offline")
}

func TestRosterRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRosterRepository(kvstore.NewMemory())

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	roster := employee.Roster{
		{ID: "1", Name: "Ann", PrimaryCompany: "Acme", JoinedDate: "2020-01-02", Status: employee.StatusLeave},
		{ID: "2", Name: "Bob", PrimaryCompany: "Acme"},
	}
	require.NoError(t, repo.Save(ctx, roster))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, roster[0], got[0])
	require.Equal(t, employee.StatusActive, got[1].Status)
}

func TestTablesRepository_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewTablesRepository(store)

	require.NoError(t, repo.SaveGrouping(ctx, orgconfig.Grouping{"Sales": "Commercial"}))
	require.NoError(t, repo.SaveSortOrder(ctx, orgconfig.SortOrder{nodekey.Division("Commercial"): 1}))
	require.NoError(t, repo.SaveLeadership(ctx, orgconfig.Leadership{nodekey.CEO("Acme"): "7"}))
	require.NoError(t, repo.SaveCrossUnit(ctx, orgconfig.CrossUnit{nodekey.Team("Field"): {"3", "4"}}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Commercial", got.Grouping["Sales"])
	require.Equal(t, 1, got.SortOrder[nodekey.Division("Commercial")])
	require.Equal(t, "7", got.Leadership[nodekey.CEO("Acme")])
	require.Equal(t, []string{"3", "4"}, got.CrossUnit[nodekey.Team("Field")])

	require.NoError(t, repo.SaveGrouping(ctx, nil))
	raw, ok, err := store.Get(ctx, kvstore.SlotGrouping)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "{}", string(raw))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got.Grouping)
	require.Equal(t, "7", got.Leadership[nodekey.CEO("Acme")])
}

func TestLoad_MalformedSlotFallsBackToEmpty(t *testing.T) {
	store := kvstore.NewMemory()
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(log))

	require.NoError(t, store.Put(ctx, kvstore.SlotLeadership, []byte("{not json")))
	require.NoError(t, store.Put(ctx, kvstore.SlotRoster, []byte(`{"id":"1"}`)))
	require.NoError(t, store.Put(ctx, kvstore.SlotGrouping, []byte(`{"Sales":"Commercial"}`)))

	tables, err := NewTablesRepository(store).Load(ctx)
	require.NoError(t, err)
	require.Empty(t, tables.Leadership)
	require.Equal(t, "Commercial", tables.Grouping["Sales"])

	roster, err := NewRosterRepository(store).Load(ctx)
	require.NoError(t, err)
	require.Empty(t, roster)

	require.Contains(t, buf.String(), "discarding malformed slot")
	require.Contains(t, buf.String(), "slot=leadership")
	require.Contains(t, buf.String(), "slot=roster")
}

func TestLoad_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	_, err := NewTablesRepository(failingStore{}).Load(ctx)
	require.ErrorContains(t, err, "store offline")

	err = NewRosterRepository(failingStore{}).Save(ctx, nil)
	require.ErrorContains(t, err, "save roster")
}
