package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

// employeeFlags binds one flag per editable field; only flags the user set
// are applied.
type employeeFlags struct {
	fields map[string]*string
	head   bool
}

func newEmployeeFlags(fs *pflag.FlagSet) *employeeFlags {
	f := &employeeFlags{fields: map[string]*string{}}
	for _, name := range []string{
		"name", "english-name", "company", "division", "department", "team",
		"position", "duty", "email", "phone", "extension", "joined", "status",
	} {
		f.fields[name] = fs.String(name, "", "Set "+name)
	}
	fs.BoolVar(&f.head, "head", false, "Set the head flag")
	return f
}

func (f *employeeFlags) apply(fs *pflag.FlagSet, e *employee.Employee) {
	targets := map[string]*string{
		"name":         &e.Name,
		"english-name": &e.EnglishName,
		"company":      &e.PrimaryCompany,
		"division":     &e.Division,
		"department":   &e.Department,
		"team":         &e.Team,
		"position":     &e.Position,
		"duty":         &e.Duty,
		"email":        &e.Email,
		"phone":        &e.Phone,
		"extension":    &e.ExtensionNumber,
		"joined":       &e.JoinedDate,
	}
	for name, dst := range targets {
		if fs.Changed(name) {
			*dst = *f.fields[name]
		}
	}
	if fs.Changed("status") {
		e.Status = employee.ParseStatus(*f.fields["status"])
	}
	if fs.Changed("head") {
		e.IsHead = f.head
	}
}

func (c *cli) newEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "employee", Short: "Edit individual roster records"}

	update := &cobra.Command{
		Use:   "set ID",
		Short: "Change fields of an existing employee",
		Args:  cobra.ExactArgs(1),
	}
	updateFlags := newEmployeeFlags(update.Flags())
	update.RunE = func(cmd *cobra.Command, args []string) error {
		roster, err := c.app.svc.Roster(cmd.Context())
		if err != nil {
			return classify(err)
		}
		e, ok := roster.ByID(args[0])
		if !ok {
			return withCode(exitValidation, errors.Errorf("employee %q not found", args[0]))
		}
		updateFlags.apply(cmd.Flags(), &e)
		return classify(c.app.svc.UpdateEmployee(cmd.Context(), e))
	}

	add := &cobra.Command{
		Use:   "add ID",
		Short: "Append a new employee",
		Args:  cobra.ExactArgs(1),
	}
	addFlags := newEmployeeFlags(add.Flags())
	add.RunE = func(cmd *cobra.Command, args []string) error {
		e := employee.Employee{ID: args[0]}
		addFlags.apply(cmd.Flags(), &e)
		return classify(c.app.svc.AddEmployee(cmd.Context(), e))
	}

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.DeleteEmployee(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(update, add, remove)
	return cmd
}
