// Package orgconfig holds the four administrator-maintained tables that steer
// hierarchy synthesis. Tables are values: mutators return an updated copy and
// never touch the receiver, so a built tree can never observe a later edit.
package orgconfig

import (
	"sort"
	"strings"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

// DefaultPriority is the sort priority of units without a Sort-Order entry.
const DefaultPriority = 999

// Grouping maps a department or team label to a division label.
type Grouping map[string]string

// DivisionFor resolves the division of a department, falling back to the team.
func (g Grouping) DivisionFor(department, team string) (string, bool) {
	for _, label := range []string{department, team} {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if div := strings.TrimSpace(g[label]); div != "" {
			return div, true
		}
	}
	return "", false
}

func (g Grouping) With(label, division string) Grouping {
	out := make(Grouping, len(g)+1)
	for k, v := range g {
		out[k] = v
	}
	out[strings.TrimSpace(label)] = strings.TrimSpace(division)
	return out
}

func (g Grouping) Without(label string) Grouping {
	out := make(Grouping, len(g))
	for k, v := range g {
		if k != strings.TrimSpace(label) {
			out[k] = v
		}
	}
	return out
}

// SortOrder holds sibling priorities by node key. Lower sorts first.
type SortOrder map[nodekey.Key]int

func (s SortOrder) PriorityOf(key nodekey.Key, fallback int) int {
	if p, ok := s[key]; ok {
		return p
	}
	return fallback
}

func (s SortOrder) With(key nodekey.Key, priority int) SortOrder {
	out := make(SortOrder, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[key] = priority
	return out
}

func (s SortOrder) Without(key nodekey.Key) SortOrder {
	out := make(SortOrder, len(s))
	for k, v := range s {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Leadership stores explicit leader overrides only; inferred leaders are never
// written here.
type Leadership map[nodekey.Key]string

// Resolve returns the overriding leader for key. A missing entry and an entry
// pointing at an id absent from the roster both report false.
func (l Leadership) Resolve(key nodekey.Key, index map[string]employee.Employee) (employee.Employee, bool) {
	id, ok := l[key]
	if !ok || strings.TrimSpace(id) == "" {
		return employee.Employee{}, false
	}
	e, ok := index[id]
	return e, ok
}

// Dangling reports whether key has an override whose id is not in the roster.
func (l Leadership) Dangling(key nodekey.Key, index map[string]employee.Employee) bool {
	id, ok := l[key]
	if !ok || strings.TrimSpace(id) == "" {
		return false
	}
	_, found := index[id]
	return !found
}

func (l Leadership) With(key nodekey.Key, employeeID string) Leadership {
	out := make(Leadership, len(l)+1)
	for k, v := range l {
		out[k] = v
	}
	out[key] = strings.TrimSpace(employeeID)
	return out
}

// Without clears an override. The unit falls back to title inference.
func (l Leadership) Without(key nodekey.Key) Leadership {
	out := make(Leadership, len(l))
	for k, v := range l {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// CrossUnit lists, per injected-into unit, the employees displayed there in
// addition to their formal placement.
type CrossUnit map[nodekey.Key][]string

// MembersOf resolves the injected employees of key in registry order. Dangling
// and repeated ids are dropped.
func (c CrossUnit) MembersOf(key nodekey.Key, index map[string]employee.Employee) []employee.Employee {
	ids := c[key]
	if len(ids) == 0 {
		return nil
	}
	out := make([]employee.Employee, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if e, ok := index[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (c CrossUnit) With(key nodekey.Key, employeeID string) CrossUnit {
	employeeID = strings.TrimSpace(employeeID)
	out := c.clone()
	for _, id := range out[key] {
		if id == employeeID {
			return out
		}
	}
	out[key] = append(out[key], employeeID)
	return out
}

func (c CrossUnit) Without(key nodekey.Key, employeeID string) CrossUnit {
	out := c.clone()
	ids := out[key][:0:0]
	for _, id := range out[key] {
		if id != strings.TrimSpace(employeeID) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		delete(out, key)
	} else {
		out[key] = ids
	}
	return out
}

// UnitsOf lists the keys an employee is injected into, sorted.
func (c CrossUnit) UnitsOf(employeeID string) []nodekey.Key {
	var out []nodekey.Key
	for key, ids := range c {
		for _, id := range ids {
			if id == employeeID {
				out = append(out, key)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c CrossUnit) clone() CrossUnit {
	out := make(CrossUnit, len(c)+1)
	for k, ids := range c {
		out[k] = append([]string(nil), ids...)
	}
	return out
}

// Tables bundles every configuration input of the synthesizer.
type Tables struct {
	Grouping   Grouping   `json:"grouping" toml:"grouping" yaml:"grouping"`
	SortOrder  SortOrder  `json:"sortOrder" toml:"sort_order" yaml:"sortOrder"`
	Leadership Leadership `json:"leadership" toml:"leadership" yaml:"leadership"`
	CrossUnit  CrossUnit  `json:"crossUnit" toml:"cross_unit" yaml:"crossUnit"`
}

// HasEntry reports whether key is named by any of the key-addressed tables.
// Grouping is keyed by label, not node key, and is not consulted.
func (t Tables) HasEntry(key nodekey.Key) bool {
	if _, ok := t.SortOrder[key]; ok {
		return true
	}
	if _, ok := t.Leadership[key]; ok {
		return true
	}
	return len(t.CrossUnit[key]) > 0
}

// ConfiguredKeys returns the keys of the given level mentioned by any
// key-addressed table, sorted.
func (t Tables) ConfiguredKeys(level nodekey.Level) []nodekey.Key {
	seen := make(map[nodekey.Key]struct{})
	add := func(k nodekey.Key) {
		if k.Level() == level && k.Label() != "" {
			seen[k] = struct{}{}
		}
	}
	for k := range t.SortOrder {
		add(k)
	}
	for k := range t.Leadership {
		add(k)
	}
	for k, ids := range t.CrossUnit {
		if len(ids) > 0 {
			add(k)
		}
	}
	out := make([]nodekey.Key, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
