package employee

import (
	"strings"
)

type Status string

const (
	StatusActive Status = "active"
	StatusLeave  Status = "leave"
)

func ParseStatus(v string) Status {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "leave", "on leave", "휴직", "inactive":
		return StatusLeave
	default:
		return StatusActive
	}
}

// Employee is one person's assignment record. Optional string fields are empty
// when unknown; JoinedDate and BirthDate keep their normalized textual form.
type Employee struct {
	ID              string `json:"id" yaml:"id" validate:"required"`
	Name            string `json:"name" yaml:"name" validate:"required"`
	EnglishName     string `json:"englishName,omitempty" yaml:"englishName,omitempty"`
	PrimaryCompany  string `json:"primaryCompany,omitempty" yaml:"primaryCompany,omitempty"`
	Division        string `json:"division,omitempty" yaml:"division,omitempty"`
	Department      string `json:"department,omitempty" yaml:"department,omitempty"`
	Team            string `json:"team,omitempty" yaml:"team,omitempty"`
	Position        string `json:"position,omitempty" yaml:"position,omitempty"`
	Duty            string `json:"duty,omitempty" yaml:"duty,omitempty"`
	Email           string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone           string `json:"phone,omitempty" yaml:"phone,omitempty"`
	ExtensionNumber string `json:"extensionNumber,omitempty" yaml:"extensionNumber,omitempty"`
	// JoinedDate is YYYY-MM-DD so that lexical order is chronological.
	JoinedDate string `json:"joinedDate,omitempty" yaml:"joinedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	// BirthDate holds the YYMMDD prefix of a national-id-like value.
	BirthDate string `json:"birthDate,omitempty" yaml:"birthDate,omitempty"`
	Status    Status `json:"status" yaml:"status"`
	IsHead    bool   `json:"isHead" yaml:"isHead"`
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
}

// Normalize trims every textual field and fills the default status.
func (e *Employee) Normalize() {
	for _, f := range []*string{
		&e.ID, &e.Name, &e.EnglishName, &e.PrimaryCompany, &e.Division, &e.Department,
		&e.Team, &e.Position, &e.Duty, &e.Email, &e.Phone, &e.ExtensionNumber,
		&e.JoinedDate, &e.BirthDate, &e.AvatarURL,
	} {
		*f = strings.TrimSpace(*f)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
}

func (e Employee) IsZero() bool { return e.ID == "" }

func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.EnglishName
}
