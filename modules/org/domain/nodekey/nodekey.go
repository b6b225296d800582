// Package nodekey defines the deterministic identities of org tree positions.
//
// A key is "<LEVEL>:<label>". Keys are derived from the grouping label alone,
// so two companies using the same division name share one key.
package nodekey

import (
	"strings"
)

type Level string

const (
	LevelCEO        Level = "CEO"
	LevelDivision   Level = "DIV"
	LevelDepartment Level = "DEPT"
	LevelTeam       Level = "TEAM"
	LevelMember     Level = "MEMBER"
)

type Key string

const separator = ":"

func New(level Level, label string) Key {
	return Key(string(level) + separator + strings.TrimSpace(label))
}

func CEO(company string) Key     { return New(LevelCEO, company) }
func Division(name string) Key   { return New(LevelDivision, name) }
func Department(name string) Key { return New(LevelDepartment, name) }
func Team(name string) Key       { return New(LevelTeam, name) }
func Member(id string) Key       { return New(LevelMember, id) }

// Parse splits a raw key. ok is false for unknown levels or a missing separator.
func Parse(raw string) (Level, string, bool) {
	prefix, label, found := strings.Cut(raw, separator)
	if !found {
		return "", "", false
	}
	switch lvl := Level(prefix); lvl {
	case LevelCEO, LevelDivision, LevelDepartment, LevelTeam, LevelMember:
		return lvl, label, true
	default:
		return "", "", false
	}
}

func (k Key) Level() Level {
	lvl, _, _ := Parse(string(k))
	return lvl
}

func (k Key) Label() string {
	_, label, _ := Parse(string(k))
	return label
}

func (k Key) String() string { return string(k) }
