package services

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iota-uz/orgportal/modules/org/domain/keywords"
	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/modules/org/domain/orgtree"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

const (
	DefaultExecutiveDivision    = "Executive"
	DefaultUnclassifiedDivision = "Unclassified"
)

type SynthesizerOption func(*Synthesizer)

func WithLocale(tag language.Tag) SynthesizerOption {
	return func(s *Synthesizer) { s.locale = tag }
}

func WithDefaultPriority(p int) SynthesizerOption {
	return func(s *Synthesizer) { s.defaultPriority = p }
}

// WithBucketLabels renames the executive and unclassified divisions.
func WithBucketLabels(executive, unclassified string) SynthesizerOption {
	return func(s *Synthesizer) {
		if strings.TrimSpace(executive) != "" {
			s.executiveLabel = strings.TrimSpace(executive)
		}
		if strings.TrimSpace(unclassified) != "" {
			s.unclassifiedLabel = strings.TrimSpace(unclassified)
		}
	}
}

func WithLogger(log *logrus.Entry) SynthesizerOption {
	return func(s *Synthesizer) { s.log = log }
}

// Synthesizer turns a flat roster into an organization tree. It keeps no state
// between calls; Build may be called concurrently.
type Synthesizer struct {
	locale            language.Tag
	defaultPriority   int
	executiveLabel    string
	unclassifiedLabel string
	log               *logrus.Entry
}

func NewSynthesizer(opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		locale:            language.Und,
		defaultPriority:   orgconfig.DefaultPriority,
		executiveLabel:    DefaultExecutiveDivision,
		unclassifiedLabel: DefaultUnclassifiedDivision,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// poolMember is an employee in a unit's working pool. Injected members come
// from the Cross-Unit Membership registry rather than formal placement.
type poolMember struct {
	employee.Employee
	injected bool
}

type leader struct {
	employee.Employee
	external bool
}

type build struct {
	s        *Synthesizer
	company  string
	tables   orgconfig.Tables
	index    map[string]employee.Employee
	position map[string]int
	// owners maps a unit key to the companies whose employees formally use it.
	owners map[nodekey.Key]map[string]struct{}
	col    *collate.Collator
}

// Build synthesizes the tree of one company. It never fails: every lookup
// degrades to vacancy, the unclassified bucket or the default priority.
func (s *Synthesizer) Build(company string, roster employee.Roster, tables orgconfig.Tables) *orgtree.OrgNode {
	company = strings.TrimSpace(company)
	roster = dedupe(roster)

	b := &build{
		s:        s,
		company:  company,
		tables:   tables,
		index:    roster.Index(),
		position: make(map[string]int, len(roster)),
		// collate.Collator is not safe for concurrent use.
		col: collate.New(s.locale, collate.Loose),
	}
	for i, e := range roster {
		b.position[e.ID] = i
	}
	b.owners = b.unitOwners(roster)

	members := roster.ForCompany(company)
	rootKey := nodekey.CEO(company)
	root := &orgtree.OrgNode{ID: rootKey, Name: company, Type: orgtree.TypeCEO}

	ceo, ok := tables.Leadership.Resolve(rootKey, b.index)
	if !ok {
		b.logDangling(rootKey)
		var candidates []poolMember
		for _, e := range members {
			candidates = append(candidates, poolMember{Employee: e})
		}
		ceo, ok = b.firstMatching(candidates, keywords.TopExecutive)
	}
	if ok {
		b.setManager(root, leader{Employee: ceo, external: ceo.PrimaryCompany != company})
	}

	formal := make(map[string][]employee.Employee)
	for _, e := range members {
		if ok && e.ID == ceo.ID {
			continue
		}
		div := b.divisionOf(e)
		formal[div] = append(formal[div], e)
	}

	// Departments named only in configuration are hung under their grouped division.
	placed := make(map[string]struct{})
	for div, emps := range formal {
		if div == s.executiveLabel {
			continue
		}
		for _, e := range emps {
			if e.Department != "" {
				placed[e.Department] = struct{}{}
			}
		}
	}
	configuredDepts := make(map[string][]string)
	for _, key := range tables.ConfiguredKeys(nodekey.LevelDepartment) {
		dept := key.Label()
		if _, ok := placed[dept]; ok || !b.configuredHere(key) {
			continue
		}
		div, ok := tables.Grouping.DivisionFor(dept, "")
		if !ok {
			div = s.unclassifiedLabel
		} else if b.foreign(nodekey.Division(div)) {
			continue
		}
		configuredDepts[div] = append(configuredDepts[div], dept)
	}

	names := make(map[string]struct{}, len(formal))
	for div := range formal {
		names[div] = struct{}{}
	}
	for div := range configuredDepts {
		names[div] = struct{}{}
	}
	for _, key := range tables.ConfiguredKeys(nodekey.LevelDivision) {
		names[key.Label()] = struct{}{}
	}

	for name := range names {
		if node := b.division(name, formal[name], configuredDepts[name]); node != nil {
			root.Children = append(root.Children, node)
		}
	}
	b.sortUnits(root.Children)
	root.MemberCount = countMembers(root.Children)
	return root
}

func (b *build) divisionOf(e employee.Employee) string {
	if keywords.IsExecutiveTier(e.Duty, e.Department) {
		return b.s.executiveLabel
	}
	if e.Division != "" {
		return e.Division
	}
	if div, ok := b.tables.Grouping.DivisionFor(e.Department, e.Team); ok {
		return div
	}
	return b.s.unclassifiedLabel
}

func (b *build) division(name string, formal []employee.Employee, configuredDepts []string) *orgtree.OrgNode {
	key := nodekey.Division(name)
	if len(formal) == 0 && len(configuredDepts) == 0 && b.foreign(key) {
		return nil
	}
	pool := b.pool(key, formal)
	if len(pool) == 0 && len(configuredDepts) == 0 && !b.configuredHere(key) {
		return nil
	}

	node := &orgtree.OrgNode{ID: key, Name: name, Type: orgtree.TypeDivision}
	lead, hasLead := b.leader(key, pool, keywords.DivisionHead)
	if hasLead {
		b.setManager(node, lead)
	}

	flat := name == b.s.executiveLabel
	var direct []poolMember
	byDept := make(map[string][]employee.Employee)
	// Employees with a team but no department hang their team off the division.
	byTeam := make(map[string][]employee.Employee)
	for _, m := range pool {
		switch {
		case hasLead && m.ID == lead.ID:
		case m.injected || flat || (m.Department == "" && m.Team == ""):
			direct = append(direct, m)
		case m.Department == "":
			byTeam[m.Team] = append(byTeam[m.Team], m.Employee)
		default:
			byDept[m.Department] = append(byDept[m.Department], m.Employee)
		}
	}
	for _, dept := range configuredDepts {
		if _, ok := byDept[dept]; !ok {
			byDept[dept] = nil
		}
	}

	var units []*orgtree.OrgNode
	for dept, emps := range byDept {
		if child := b.department(dept, emps); child != nil {
			units = append(units, child)
		}
	}
	for team, emps := range byTeam {
		if child := b.team(team, emps); child != nil {
			units = append(units, child)
		}
	}
	b.sortUnits(units)
	node.Children = append(units, b.memberNodes(direct)...)
	node.MemberCount = countMembers(node.Children)
	return node
}

func (b *build) department(name string, formal []employee.Employee) *orgtree.OrgNode {
	key := nodekey.Department(name)
	if len(formal) == 0 && b.foreign(key) {
		return nil
	}
	pool := b.pool(key, formal)
	if len(pool) == 0 && !b.configuredHere(key) {
		return nil
	}

	node := &orgtree.OrgNode{ID: key, Name: name, Type: orgtree.TypeDepartment}
	lead, hasLead := b.leader(key, pool, keywords.DepartmentHead)
	if hasLead {
		b.setManager(node, lead)
	}

	var direct []poolMember
	byTeam := make(map[string][]employee.Employee)
	for _, m := range pool {
		switch {
		case hasLead && m.ID == lead.ID:
		case m.injected || m.Team == "":
			direct = append(direct, m)
		default:
			byTeam[m.Team] = append(byTeam[m.Team], m.Employee)
		}
	}

	var units []*orgtree.OrgNode
	for team, emps := range byTeam {
		if child := b.team(team, emps); child != nil {
			units = append(units, child)
		}
	}
	b.sortUnits(units)
	node.Children = append(units, b.memberNodes(direct)...)
	node.MemberCount = countMembers(node.Children)
	return node
}

func (b *build) team(name string, formal []employee.Employee) *orgtree.OrgNode {
	key := nodekey.Team(name)
	if len(formal) == 0 && b.foreign(key) {
		return nil
	}
	pool := b.pool(key, formal)
	if len(pool) == 0 && !b.configuredHere(key) {
		return nil
	}

	node := &orgtree.OrgNode{ID: key, Name: name, Type: orgtree.TypeTeam}
	lead, hasLead := b.leader(key, pool, keywords.TeamLead)
	if hasLead {
		b.setManager(node, lead)
	}

	members := make([]poolMember, 0, len(pool))
	for _, m := range pool {
		if hasLead && m.ID == lead.ID {
			continue
		}
		members = append(members, m)
	}
	node.Children = b.memberNodes(members)
	node.MemberCount = len(node.Children)
	return node
}

// unitOwners maps every unit label in use to the companies that place
// employees there. Configuration tables are not company-scoped.
func (b *build) unitOwners(roster employee.Roster) map[nodekey.Key]map[string]struct{} {
	owners := make(map[nodekey.Key]map[string]struct{})
	add := func(key nodekey.Key, company string) {
		if key.Label() == "" {
			return
		}
		if owners[key] == nil {
			owners[key] = make(map[string]struct{}, 1)
		}
		owners[key][company] = struct{}{}
	}
	for _, e := range roster {
		add(nodekey.Division(b.divisionOf(e)), e.PrimaryCompany)
		add(nodekey.Department(e.Department), e.PrimaryCompany)
		add(nodekey.Team(e.Team), e.PrimaryCompany)
	}
	return owners
}

// foreign reports whether key is formally used by other companies only.
func (b *build) foreign(key nodekey.Key) bool {
	owners, ok := b.owners[key]
	if !ok {
		return false
	}
	_, mine := owners[b.company]
	return !mine
}

// configuredHere reports whether a unit without members should still be
// emitted for the company being built. Labels no employee uses are orphan
// configuration; a leadership-only orphan follows its leader's company.
func (b *build) configuredHere(key nodekey.Key) bool {
	if !b.tables.HasEntry(key) || b.foreign(key) {
		return false
	}
	if _, used := b.owners[key]; used {
		return true
	}
	_, sorted := b.tables.SortOrder[key]
	if sorted || len(b.tables.CrossUnit[key]) > 0 {
		return true
	}
	if e, ok := b.tables.Leadership.Resolve(key, b.index); ok {
		return e.PrimaryCompany == b.company
	}
	return true
}

// pool merges the formal members of a unit with its injected members.
// Formal placement wins when an employee is both.
func (b *build) pool(key nodekey.Key, formal []employee.Employee) []poolMember {
	out := make([]poolMember, 0, len(formal))
	seen := make(map[string]struct{}, len(formal))
	for _, e := range formal {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, poolMember{Employee: e})
	}
	if ids := b.tables.CrossUnit[key]; len(ids) > 0 {
		for _, id := range ids {
			if _, ok := b.index[id]; !ok {
				b.logf("cross-unit member %q of %s is not in the roster", id, key)
			}
		}
	}
	for _, e := range b.tables.CrossUnit.MembersOf(key, b.index) {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, poolMember{Employee: e, injected: true})
	}
	return out
}

// leader resolves a unit leader: explicit override, then the first pool member
// whose duty matches the level keywords, then vacancy.
func (b *build) leader(key nodekey.Key, pool []poolMember, set keywords.Set) (leader, bool) {
	if e, ok := b.tables.Leadership.Resolve(key, b.index); ok {
		external := true
		for _, m := range pool {
			if m.ID == e.ID {
				external = m.injected
				break
			}
		}
		return leader{Employee: e, external: external}, true
	}
	b.logDangling(key)

	if e, ok := b.firstMatching(pool, set); ok {
		for _, m := range pool {
			if m.ID == e.ID {
				return leader{Employee: e, external: m.injected}, true
			}
		}
	}
	return leader{}, false
}

// firstMatching picks among keyword matches by earliest join date, then by
// roster position. Unknown join dates sort after known ones.
func (b *build) firstMatching(pool []poolMember, set keywords.Set) (employee.Employee, bool) {
	var (
		best  employee.Employee
		found bool
	)
	for _, m := range pool {
		if !set.Match(m.Duty) {
			continue
		}
		if !found || b.joinedBefore(m.Employee, best) {
			best = m.Employee
			found = true
		}
	}
	return best, found
}

func (b *build) joinedBefore(a, c employee.Employee) bool {
	switch {
	case a.JoinedDate != "" && c.JoinedDate == "":
		return true
	case a.JoinedDate == "" && c.JoinedDate != "":
		return false
	case a.JoinedDate != c.JoinedDate:
		return a.JoinedDate < c.JoinedDate
	default:
		return b.position[a.ID] < b.position[c.ID]
	}
}

func (b *build) setManager(node *orgtree.OrgNode, l leader) {
	node.Manager = l.DisplayName()
	node.ManagerID = l.ID
	node.ManagerExternal = l.external || l.PrimaryCompany != b.company
}

func (b *build) memberNodes(pool []poolMember) []*orgtree.OrgNode {
	sort.SliceStable(pool, func(i, j int) bool {
		ri, rj := keywords.RankOf(pool[i].Duty), keywords.RankOf(pool[j].Duty)
		if ri != rj {
			return ri < rj
		}
		di, dj := pool[i].JoinedDate, pool[j].JoinedDate
		if di != dj {
			if di == "" || dj == "" {
				return dj == ""
			}
			return di < dj
		}
		if c := b.col.CompareString(pool[i].Name, pool[j].Name); c != 0 {
			return c < 0
		}
		return pool[i].ID < pool[j].ID
	})
	out := make([]*orgtree.OrgNode, 0, len(pool))
	for _, m := range pool {
		e := m.Employee
		out = append(out, &orgtree.OrgNode{
			ID:          nodekey.Member(e.ID),
			Name:        e.DisplayName(),
			Type:        orgtree.TypeMember,
			Employee:    &e,
			External:    m.injected || e.PrimaryCompany != b.company,
			MemberCount: 1,
		})
	}
	return out
}

// sortUnits orders siblings by configured priority, then by collated name,
// then by raw name and key so equal collation keys stay deterministic.
func (b *build) sortUnits(units []*orgtree.OrgNode) {
	sort.SliceStable(units, func(i, j int) bool {
		pi := b.tables.SortOrder.PriorityOf(units[i].ID, b.s.defaultPriority)
		pj := b.tables.SortOrder.PriorityOf(units[j].ID, b.s.defaultPriority)
		if pi != pj {
			return pi < pj
		}
		if c := b.col.CompareString(units[i].Name, units[j].Name); c != 0 {
			return c < 0
		}
		if units[i].Name != units[j].Name {
			return units[i].Name < units[j].Name
		}
		return units[i].ID < units[j].ID
	})
}

func (b *build) logDangling(key nodekey.Key) {
	if b.tables.Leadership.Dangling(key, b.index) {
		b.logf("leadership override of %s points at unknown employee %q", key, b.tables.Leadership[key])
	}
}

func (b *build) logf(format string, args ...any) {
	if b.s.log != nil {
		b.s.log.Debugf(format, args...)
	}
}

func countMembers(children []*orgtree.OrgNode) int {
	n := 0
	for _, c := range children {
		n += c.MemberCount
	}
	return n
}

// dedupe keeps one record per id: the last value at the first position.
func dedupe(r employee.Roster) employee.Roster {
	at := make(map[string]int, len(r))
	out := make(employee.Roster, 0, len(r))
	for _, e := range r {
		if strings.TrimSpace(e.ID) == "" {
			continue
		}
		if i, ok := at[e.ID]; ok {
			out[i] = e
			continue
		}
		at[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}
