package services

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgportal/modules/org/domain/events"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/modules/org/domain/orgtree"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/pkg/eventbus"
)

type RosterRepository interface {
	Load(ctx context.Context) (employee.Roster, error)
	Save(ctx context.Context, roster employee.Roster) error
}

type TablesRepository interface {
	Load(ctx context.Context) (orgconfig.Tables, error)
	SaveGrouping(ctx context.Context, g orgconfig.Grouping) error
	SaveSortOrder(ctx context.Context, s orgconfig.SortOrder) error
	SaveLeadership(ctx context.Context, l orgconfig.Leadership) error
	SaveCrossUnit(ctx context.Context, c orgconfig.CrossUnit) error
}

// OrgService owns the current roster and configuration tables, serves the
// synthesized views and applies administrative changes. Views are memoized
// until an event reports a change to their inputs.
type OrgService struct {
	synth   *Synthesizer
	rosters RosterRepository
	tables  TablesRepository
	bus     eventbus.EventBus
	cache   *orgCache

	// write serializes mutations end to end; mu guards the fields below.
	write  sync.Mutex
	mu     sync.RWMutex
	loaded bool
	roster employee.Roster
	config orgconfig.Tables

	unsubscribe []func()
}

func NewOrgService(synth *Synthesizer, rosters RosterRepository, tables TablesRepository, bus eventbus.EventBus) *OrgService {
	s := &OrgService{
		synth:   synth,
		rosters: rosters,
		tables:  tables,
		bus:     bus,
		cache:   newOrgCache(),
	}
	invalidate := func() { s.cache.InvalidateAll() }
	s.unsubscribe = []func(){
		bus.Subscribe(func(*events.RosterReplacedEvent) { invalidate() }),
		bus.Subscribe(func(*events.EmployeeChangedEvent) { invalidate() }),
		bus.Subscribe(func(*events.TablesChangedEvent) { invalidate() }),
	}
	return s
}

// Close detaches the service from the event bus.
func (s *OrgService) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

// Reload discards the in-memory state and reads both roster and tables again.
func (s *OrgService) Reload(ctx context.Context) error {
	roster, err := s.rosters.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load roster")
	}
	tables, err := s.tables.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load tables")
	}
	s.mu.Lock()
	s.roster, s.config, s.loaded = roster, tables, true
	s.mu.Unlock()
	s.cache.InvalidateAll()

	logWithFields(ctx, logrus.DebugLevel, "org service loaded", logrus.Fields{
		"employees": len(roster),
		"companies": len(roster.Companies()),
	})
	return nil
}

func (s *OrgService) snapshot(ctx context.Context) (employee.Roster, orgconfig.Tables, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.roster, s.config, nil
	}
	s.mu.RUnlock()
	if err := s.Reload(ctx); err != nil {
		return nil, orgconfig.Tables{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster, s.config, nil
}

func (s *OrgService) Roster(ctx context.Context) (employee.Roster, error) {
	roster, _, err := s.snapshot(ctx)
	return roster, err
}

func (s *OrgService) Tables(ctx context.Context) (orgconfig.Tables, error) {
	_, tables, err := s.snapshot(ctx)
	return tables, err
}

// Tree returns the synthesized hierarchy of company. The result is shared
// with later callers and must not be modified.
func (s *OrgService) Tree(ctx context.Context, company string) (*orgtree.OrgNode, error) {
	gen := s.cache.Generation()
	if v, ok := s.cache.Get(treeCacheKey(company)); ok {
		return v.(*orgtree.OrgNode), nil
	}
	roster, tables, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	tree := s.synth.Build(company, roster, tables)
	s.cache.Set(gen, treeCacheKey(company), tree)
	logWithFields(ctx, logrus.DebugLevel, "org tree synthesized", logrus.Fields{
		"company": company,
		"members": tree.MemberCount,
	})
	return tree, nil
}

// Directory lists the company's employees in directory order, filtered and
// ranked by query when it is not empty.
func (s *OrgService) Directory(ctx context.Context, company, query string) (employee.Roster, error) {
	gen := s.cache.Generation()
	var list employee.Roster
	if v, ok := s.cache.Get(directoryCacheKey(company)); ok {
		list = v.(employee.Roster)
	} else {
		roster, _, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		list = s.synth.Directory(company, roster)
		s.cache.Set(gen, directoryCacheKey(company), list)
	}
	if query == "" {
		return list, nil
	}
	return Search(query, list), nil
}

func (s *OrgService) Companies(ctx context.Context) ([]string, error) {
	gen := s.cache.Generation()
	if v, ok := s.cache.Get(companiesCacheKey); ok {
		return v.([]string), nil
	}
	roster, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	companies := roster.Companies()
	s.cache.Set(gen, companiesCacheKey, companies)
	return companies, nil
}
