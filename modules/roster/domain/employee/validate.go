package employee

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidEmployee = errors.New("invalid employee")
	ErrDuplicateID     = errors.New("duplicate employee id")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Validate checks the record at the ingestion and admin-edit boundary.
// The synthesizer assumes records already passed through here.
func Validate(e Employee) error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate employee")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return errors.Wrap(ErrInvalidEmployee, strings.Join(fields, ", "))
}

// ValidateRoster validates every record and rejects repeated ids.
func ValidateRoster(r Roster) error {
	for i, e := range r {
		if err := Validate(e); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	if dups := r.DuplicateIDs(); len(dups) > 0 {
		return errors.Wrap(ErrDuplicateID, strings.Join(dups, ", "))
	}
	return nil
}
