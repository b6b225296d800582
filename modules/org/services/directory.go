package services

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/collate"

	"github.com/iota-uz/orgportal/modules/org/domain/keywords"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

// Directory returns the employees of one company as a flat list ordered by
// duty seniority, then join date (unknown last), then name.
func (s *Synthesizer) Directory(company string, roster employee.Roster) employee.Roster {
	out := dedupe(roster).ForCompany(strings.TrimSpace(company))
	col := collate.New(s.locale, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := keywords.RankOf(out[i].Duty), keywords.RankOf(out[j].Duty)
		if ri != rj {
			return ri < rj
		}
		di, dj := out[i].JoinedDate, out[j].JoinedDate
		if di != dj {
			if di == "" || dj == "" {
				return dj == ""
			}
			return di < dj
		}
		if c := col.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Search ranks employees by fuzzy match of query against their name, English
// name, unit labels and duty. An empty query returns the input unchanged.
func Search(query string, employees employee.Roster) employee.Roster {
	query = strings.TrimSpace(query)
	if query == "" {
		return employees
	}
	targets := make([]string, len(employees))
	for i, e := range employees {
		targets[i] = strings.Join([]string{e.Name, e.EnglishName, e.Division, e.Department, e.Team, e.Duty, e.ID}, " ")
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)
	out := make(employee.Roster, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, employees[r.OriginalIndex])
	}
	return out
}
