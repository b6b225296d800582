package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgportal/modules/org/domain/events"
	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	rosterservices "github.com/iota-uz/orgportal/modules/roster/services"
	"github.com/iota-uz/orgportal/pkg/composables"
)

var (
	ErrForbidden          = errors.New("administrator privileges required")
	ErrImportNotConfirmed = errors.New("import not confirmed")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeExists     = errors.New("employee already exists")
	ErrInvalidKey         = errors.New("invalid node key")
	ErrInvalidLabel       = errors.New("invalid label")
)

// mutate runs fn on the current state under the write lock. fn persists what it
// changes and returns the new state plus the event to publish; the in-memory
// state is only replaced when fn succeeds.
func (s *OrgService) mutate(ctx context.Context, action string, fn func(employee.Roster, orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error)) error {
	if !composables.IsAdmin(ctx) {
		logWithFields(ctx, logrus.WarnLevel, "org admin action rejected", logrus.Fields{"action": action})
		return errors.Wrap(ErrForbidden, action)
	}
	s.write.Lock()
	defer s.write.Unlock()

	roster, tables, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	roster, tables, evt, err := fn(roster, tables)
	if err != nil {
		return errors.Wrap(err, action)
	}
	s.mu.Lock()
	s.roster, s.config = roster, tables
	s.mu.Unlock()

	s.bus.Publish(evt)
	logWithFields(ctx, logrus.InfoLevel, "org admin action applied", logrus.Fields{"action": action})
	return nil
}

// ReplaceRoster swaps the whole roster for a parsed import. The configuration
// tables are left untouched, even where they now reference unknown ids.
func (s *OrgService) ReplaceRoster(ctx context.Context, plan *rosterservices.ImportResult, confirmed bool) error {
	if plan == nil {
		return errors.Wrap(rosterservices.ErrNoDataRows, "replace roster")
	}
	return s.mutate(ctx, "replace roster", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if !confirmed {
			return r, t, nil, ErrImportNotConfirmed
		}
		next := append(employee.Roster(nil), plan.Employees...)
		if err := employee.ValidateRoster(next); err != nil {
			return nil, t, nil, err
		}
		if err := s.rosters.Save(ctx, next); err != nil {
			return nil, t, nil, err
		}
		return next, t, events.NewRosterReplaced(plan.ID, len(next)), nil
	})
}

func (s *OrgService) UpdateEmployee(ctx context.Context, e employee.Employee) error {
	e.Normalize()
	return s.mutate(ctx, "update employee", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if err := employee.Validate(e); err != nil {
			return r, t, nil, err
		}
		next, ok := r.Replace(e)
		if !ok {
			return r, t, nil, errors.Wrap(ErrEmployeeNotFound, e.ID)
		}
		if err := s.rosters.Save(ctx, next); err != nil {
			return r, t, nil, err
		}
		return next, t, events.NewEmployeeChanged(e.ID, events.ChangeUpdated), nil
	})
}

func (s *OrgService) AddEmployee(ctx context.Context, e employee.Employee) error {
	e.Normalize()
	return s.mutate(ctx, "add employee", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if err := employee.Validate(e); err != nil {
			return r, t, nil, err
		}
		if _, exists := r.ByID(e.ID); exists {
			return r, t, nil, errors.Wrap(ErrEmployeeExists, e.ID)
		}
		next := append(append(employee.Roster(nil), r...), e)
		if err := s.rosters.Save(ctx, next); err != nil {
			return r, t, nil, err
		}
		return next, t, events.NewEmployeeChanged(e.ID, events.ChangeAdded), nil
	})
}

// DeleteEmployee removes the record only; table entries naming the id become
// dangling and are ignored by synthesis.
func (s *OrgService) DeleteEmployee(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete employee", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		next, ok := r.Without(id)
		if !ok {
			return r, t, nil, errors.Wrap(ErrEmployeeNotFound, id)
		}
		if err := s.rosters.Save(ctx, next); err != nil {
			return r, t, nil, err
		}
		return next, t, events.NewEmployeeChanged(id, events.ChangeDeleted), nil
	})
}

func (s *OrgService) SetGroup(ctx context.Context, label, division string) error {
	label, division = strings.TrimSpace(label), strings.TrimSpace(division)
	return s.mutate(ctx, "set group", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if label == "" || division == "" {
			return r, t, nil, ErrInvalidLabel
		}
		t.Grouping = t.Grouping.With(label, division)
		if err := s.tables.SaveGrouping(ctx, t.Grouping); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableGrouping, label), nil
	})
}

func (s *OrgService) ClearGroup(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	return s.mutate(ctx, "clear group", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		t.Grouping = t.Grouping.Without(label)
		if err := s.tables.SaveGrouping(ctx, t.Grouping); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableGrouping, label), nil
	})
}

func (s *OrgService) SetPriority(ctx context.Context, key nodekey.Key, priority int) error {
	return s.mutate(ctx, "set priority", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if err := checkKey(key); err != nil {
			return r, t, nil, err
		}
		t.SortOrder = t.SortOrder.With(key, priority)
		if err := s.tables.SaveSortOrder(ctx, t.SortOrder); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableSortOrder, key.String()), nil
	})
}

func (s *OrgService) ClearPriority(ctx context.Context, key nodekey.Key) error {
	return s.mutate(ctx, "clear priority", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		t.SortOrder = t.SortOrder.Without(key)
		if err := s.tables.SaveSortOrder(ctx, t.SortOrder); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableSortOrder, key.String()), nil
	})
}

// AssignLeader overrides title inference for key. The employee must exist but
// may belong to any unit or company.
func (s *OrgService) AssignLeader(ctx context.Context, key nodekey.Key, employeeID string) error {
	return s.mutate(ctx, "assign leader", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if err := checkKey(key); err != nil {
			return r, t, nil, err
		}
		if _, ok := r.ByID(employeeID); !ok {
			return r, t, nil, errors.Wrap(ErrEmployeeNotFound, employeeID)
		}
		t.Leadership = t.Leadership.With(key, employeeID)
		if err := s.tables.SaveLeadership(ctx, t.Leadership); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableLeadership, key.String()), nil
	})
}

func (s *OrgService) ClearLeader(ctx context.Context, key nodekey.Key) error {
	return s.mutate(ctx, "clear leader", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		t.Leadership = t.Leadership.Without(key)
		if err := s.tables.SaveLeadership(ctx, t.Leadership); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableLeadership, key.String()), nil
	})
}

func (s *OrgService) AddCrossUnitMember(ctx context.Context, key nodekey.Key, employeeID string) error {
	return s.mutate(ctx, "add cross-unit member", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		if err := checkKey(key); err != nil {
			return r, t, nil, err
		}
		if _, ok := r.ByID(employeeID); !ok {
			return r, t, nil, errors.Wrap(ErrEmployeeNotFound, employeeID)
		}
		t.CrossUnit = t.CrossUnit.With(key, employeeID)
		if err := s.tables.SaveCrossUnit(ctx, t.CrossUnit); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableCrossUnit, key.String()), nil
	})
}

func (s *OrgService) RemoveCrossUnitMember(ctx context.Context, key nodekey.Key, employeeID string) error {
	return s.mutate(ctx, "remove cross-unit member", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		t.CrossUnit = t.CrossUnit.Without(key, employeeID)
		if err := s.tables.SaveCrossUnit(ctx, t.CrossUnit); err != nil {
			return r, t, nil, err
		}
		return r, t, events.NewTablesChanged(events.TableCrossUnit, key.String()), nil
	})
}

// ApplyTables overwrites every non-nil table of seed. Keys are checked before
// anything is saved. Slots are written one at a time; when a later write fails
// the state is reloaded so memory matches what was persisted.
func (s *OrgService) ApplyTables(ctx context.Context, seed orgconfig.Tables) error {
	return s.mutate(ctx, "apply tables", func(r employee.Roster, t orgconfig.Tables) (employee.Roster, orgconfig.Tables, any, error) {
		for key := range seed.SortOrder {
			if err := checkKey(key); err != nil {
				return r, t, nil, err
			}
		}
		for key := range seed.Leadership {
			if err := checkKey(key); err != nil {
				return r, t, nil, err
			}
		}
		for key := range seed.CrossUnit {
			if err := checkKey(key); err != nil {
				return r, t, nil, err
			}
		}

		saved := 0
		save := func(slot string, fn func() error) error {
			if err := fn(); err != nil {
				if saved > 0 {
					s.resync(ctx, slot)
				}
				return errors.Wrapf(err, "save %s", slot)
			}
			saved++
			return nil
		}
		if seed.Grouping != nil {
			if err := save(events.TableGrouping, func() error { return s.tables.SaveGrouping(ctx, seed.Grouping) }); err != nil {
				return r, t, nil, err
			}
			t.Grouping = seed.Grouping
		}
		if seed.SortOrder != nil {
			if err := save(events.TableSortOrder, func() error { return s.tables.SaveSortOrder(ctx, seed.SortOrder) }); err != nil {
				return r, t, nil, err
			}
			t.SortOrder = seed.SortOrder
		}
		if seed.Leadership != nil {
			if err := save(events.TableLeadership, func() error { return s.tables.SaveLeadership(ctx, seed.Leadership) }); err != nil {
				return r, t, nil, err
			}
			t.Leadership = seed.Leadership
		}
		if seed.CrossUnit != nil {
			if err := save(events.TableCrossUnit, func() error { return s.tables.SaveCrossUnit(ctx, seed.CrossUnit) }); err != nil {
				return r, t, nil, err
			}
			t.CrossUnit = seed.CrossUnit
		}
		return r, t, events.NewTablesChanged("*", ""), nil
	})
}

// resync reloads persisted state after a partially applied write.
func (s *OrgService) resync(ctx context.Context, failed string) {
	if err := s.Reload(ctx); err != nil {
		logWithFields(ctx, logrus.ErrorLevel, "org state reload failed", logrus.Fields{"table": failed, "error": err})
		return
	}
	logWithFields(ctx, logrus.WarnLevel, "org tables partially applied", logrus.Fields{"table": failed})
}

func checkKey(key nodekey.Key) error {
	if _, label, ok := nodekey.Parse(string(key)); !ok || label == "" {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return nil
}
