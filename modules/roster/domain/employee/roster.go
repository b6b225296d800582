package employee

import (
	"sort"
)

// Roster is the full list of employee records for every company known to the
// system. Order is the order records were ingested or added in.
type Roster []Employee

// Index maps employee id to the record. When ids repeat, the last one wins.
func (r Roster) Index() map[string]Employee {
	out := make(map[string]Employee, len(r))
	for _, e := range r {
		out[e.ID] = e
	}
	return out
}

func (r Roster) ByID(id string) (Employee, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].ID == id {
			return r[i], true
		}
	}
	return Employee{}, false
}

func (r Roster) ForCompany(company string) Roster {
	out := make(Roster, 0, len(r))
	for _, e := range r {
		if e.PrimaryCompany == company {
			out = append(out, e)
		}
	}
	return out
}

// Companies returns the distinct non-empty primary companies, sorted.
func (r Roster) Companies() []string {
	seen := make(map[string]struct{}, 4)
	out := make([]string, 0, 4)
	for _, e := range r {
		if e.PrimaryCompany == "" {
			continue
		}
		if _, ok := seen[e.PrimaryCompany]; ok {
			continue
		}
		seen[e.PrimaryCompany] = struct{}{}
		out = append(out, e.PrimaryCompany)
	}
	sort.Strings(out)
	return out
}

// DuplicateIDs lists ids that occur more than once, in first-seen order.
func (r Roster) DuplicateIDs() []string {
	counts := make(map[string]int, len(r))
	var out []string
	for _, e := range r {
		counts[e.ID]++
		if counts[e.ID] == 2 {
			out = append(out, e.ID)
		}
	}
	return out
}

// Replace swaps the record with the same id, keeping its position.
func (r Roster) Replace(e Employee) (Roster, bool) {
	out := make(Roster, len(r))
	copy(out, r)
	for i := range out {
		if out[i].ID == e.ID {
			out[i] = e
			return out, true
		}
	}
	return out, false
}

func (r Roster) Without(id string) (Roster, bool) {
	out := make(Roster, 0, len(r))
	removed := false
	for _, e := range r {
		if e.ID == id {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out, removed
}
