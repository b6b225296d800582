package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/pkg/orglabels"
)

func (c *cli) newTreeCmd() *cobra.Command {
	var (
		company string
		paths   bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the synthesized organization chart of a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := c.resolveCompany(ctx, company)
			if err != nil {
				return err
			}
			tree, err := c.app.svc.Tree(ctx, name)
			if err != nil {
				return classify(err)
			}
			if paths {
				return writeOutput(cmd.OutOrStdout(), c.format, orglabels.LongNames(tree))
			}
			return writeOutput(cmd.OutOrStdout(), c.format, tree)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name (default: the only company)")
	cmd.Flags().BoolVar(&paths, "paths", false, "Print each unit's full path instead of the tree")
	return cmd
}

// directoryEntry is a directory row plus the units the employee is loaned to.
type directoryEntry struct {
	employee.Employee `yaml:",inline"`
	LoanedTo          []nodekey.Key `json:"loanedTo,omitempty" yaml:"loanedTo,omitempty"`
}

func (c *cli) newDirectoryCmd() *cobra.Command {
	var company, query string
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "List a company's employees in directory order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := c.resolveCompany(ctx, company)
			if err != nil {
				return err
			}
			list, err := c.app.svc.Directory(ctx, name, query)
			if err != nil {
				return classify(err)
			}
			tables, err := c.app.svc.Tables(ctx)
			if err != nil {
				return classify(err)
			}
			entries := make([]directoryEntry, 0, len(list))
			for _, e := range list {
				entries = append(entries, directoryEntry{Employee: e, LoanedTo: tables.CrossUnit.UnitsOf(e.ID)})
			}
			return writeOutput(cmd.OutOrStdout(), c.format, entries)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name (default: the only company)")
	cmd.Flags().StringVar(&query, "query", "", "Fuzzy filter over name, unit and duty")
	return cmd
}

func (c *cli) newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List the companies present in the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := c.app.svc.Companies(cmd.Context())
			if err != nil {
				return classify(err)
			}
			return writeOutput(cmd.OutOrStdout(), c.format, companies)
		},
	}
}
