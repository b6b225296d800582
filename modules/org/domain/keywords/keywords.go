// Package keywords holds the alias tables used to interpret free-text duty,
// position and department labels. Every heuristic lives in a table here so it
// can be tested on its own.
package keywords

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Rank orders leadership duties from the top executive down. Lower is more senior.
type Rank int

const (
	RankCEO Rank = iota
	RankExecutive
	RankDivisionHead
	RankDepartmentHead
	RankTeamLead
	RankNone
)

func (r Rank) String() string {
	switch r {
	case RankCEO:
		return "ceo"
	case RankExecutive:
		return "executive"
	case RankDivisionHead:
		return "division_head"
	case RankDepartmentHead:
		return "department_head"
	case RankTeamLead:
		return "team_lead"
	default:
		return "none"
	}
}

type MatchMode int

const (
	// Substring matches anywhere in the normalized text.
	Substring MatchMode = iota
	// Word matches a whole token.
	Word
	// Suffix matches the end of a token, e.g. the Korean "-장" title suffix.
	Suffix
	// AllWords matches when every word of the alias is a token of the text,
	// in any order: "chief officer" matches "Chief Financial Officer".
	AllWords
)

// Alias is one entry of a keyword table.
type Alias struct {
	Text string
	Mode MatchMode
}

// Set matches text against include aliases unless an exclude alias matches first.
type Set struct {
	Include []Alias
	Exclude []Alias
}

func (s Set) Match(text string) bool {
	n := Normalize(text)
	if n == "" {
		return false
	}
	for _, a := range s.Exclude {
		if a.matches(n) {
			return false
		}
	}
	for _, a := range s.Include {
		if a.matches(n) {
			return true
		}
	}
	return false
}

func (a Alias) matches(normalized string) bool {
	needle := Normalize(a.Text)
	if needle == "" {
		return false
	}
	if a.Mode == Substring {
		return strings.Contains(normalized, needle)
	}
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if a.Mode == AllWords {
		for _, w := range strings.Fields(needle) {
			if !slices.Contains(tokens, w) {
				return false
			}
		}
		return true
	}
	for _, tok := range tokens {
		if a.Mode == Word && tok == needle {
			return true
		}
		if a.Mode == Suffix && strings.HasSuffix(tok, needle) {
			return true
		}
	}
	return false
}

// Normalize folds width and case and collapses runs of whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func sub(texts ...string) []Alias {
	out := make([]Alias, len(texts))
	for i, t := range texts {
		out[i] = Alias{Text: t, Mode: Substring}
	}
	return out
}

func words(texts ...string) []Alias {
	out := make([]Alias, len(texts))
	for i, t := range texts {
		out[i] = Alias{Text: t, Mode: Word}
	}
	return out
}

func suffixes(texts ...string) []Alias {
	out := make([]Alias, len(texts))
	for i, t := range texts {
		out[i] = Alias{Text: t, Mode: Suffix}
	}
	return out
}

var (
	TopExecutive = Set{
		Include: append(words("ceo", "president"), sub("chief executive", "대표이사", "대표", "사장", "회장")...),
		Exclude: append(words("vice", "vp"), sub("부사장", "부회장", "대표 비서", "deputy")...),
	}

	// "chief" counts only as part of a C-level officer title.
	Executive = Set{
		Include: append(append(words("executive", "vp", "cfo", "coo", "cto", "cio", "evp", "svp"),
			sub("vice president", "임원", "부사장", "부회장", "전무", "상무", "이사")...),
			Alias{Text: "chief officer", Mode: AllWords}),
		Exclude: sub("executive assistant", "이사회 사무"),
	}

	DivisionHead = Set{
		Include: sub("head of division", "division head", "division director", "division manager", "본부장", "부문장", "사업부장"),
	}

	DepartmentHead = Set{
		Include: sub("head of department", "department head", "dept head", "dept. head", "department manager",
			"department director", "실장", "부서장", "처장", "센터장"),
	}

	TeamLead = Set{
		Include: sub("team lead", "team leader", "team manager", "head of team", "팀장", "파트장", "그룹장"),
	}

	// ExecutiveDepartment recognizes department labels that mark the executive tier.
	ExecutiveDepartment = Set{
		Include: append(words("executive", "executives", "board"), sub("executive office", "임원", "경영진", "임원실")...),
	}

	// HeadWord marks a duty as belonging to someone who heads something,
	// independent of level.
	HeadWord = Set{
		Include: append(words("head", "chief", "lead", "leader", "director", "manager"), suffixes("장")...),
		Exclude: sub("assistant", "deputy", "대리", "부장대우", "비서"),
	}

	// SeniorRank recognizes senior executive job grades in a position label.
	SeniorRank = Set{
		Include: append(words("director", "vp", "executive", "president"),
			sub("vice president", "이사", "상무", "전무", "부사장", "사장", "대표", "회장")...),
	}
)

// RankOf classifies a duty string by its most senior matching keyword.
func RankOf(duty string) Rank {
	switch {
	case TopExecutive.Match(duty):
		return RankCEO
	case Executive.Match(duty):
		return RankExecutive
	case DivisionHead.Match(duty):
		return RankDivisionHead
	case DepartmentHead.Match(duty):
		return RankDepartmentHead
	case TeamLead.Match(duty):
		return RankTeamLead
	default:
		return RankNone
	}
}

// IsExecutiveTier reports whether an employee belongs in the dedicated
// executive division rather than in a regular division.
func IsExecutiveTier(duty, department string) bool {
	return RankOf(duty) <= RankExecutive || ExecutiveDepartment.Match(department)
}

// IsHead is the ingestion-time heuristic for the informational isHead flag.
func IsHead(duty, position string) bool {
	if RankOf(duty) < RankNone {
		return true
	}
	return HeadWord.Match(duty) || SeniorRank.Match(position)
}
