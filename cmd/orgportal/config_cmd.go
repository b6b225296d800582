package main

import (
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
)

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit grouping, ordering, leadership and cross-unit tables",
	}
	cmd.AddCommand(c.newConfigShowCmd())
	cmd.AddCommand(c.newConfigLoadCmd())
	cmd.AddCommand(c.newGroupCmd())
	cmd.AddCommand(c.newOrderCmd())
	cmd.AddCommand(c.newLeaderCmd())
	cmd.AddCommand(c.newMemberCmd())
	return cmd
}

func (c *cli) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every configuration table",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := c.app.svc.Tables(cmd.Context())
			if err != nil {
				return classify(err)
			}
			return writeOutput(cmd.OutOrStdout(), c.format, tables)
		},
	}
}

func (c *cli) newConfigLoadCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace the tables present in a TOML seed file",
		Long: `Each top-level table of the file ([grouping], [sort_order], [leadership],
[cross_unit]) replaces the stored table of the same name. Tables missing from
the file are left unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed orgconfig.Tables
			md, err := toml.DecodeFile(file, &seed)
			if err != nil {
				return withCode(exitValidation, errors.Wrapf(err, "decode %s", file))
			}
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return withCode(exitValidation, errors.Errorf("decode %s: unknown keys %v", file, undecoded))
			}
			if err := c.app.svc.ApplyTables(cmd.Context(), seed); err != nil {
				return classify(err)
			}
			tables, err := c.app.svc.Tables(cmd.Context())
			if err != nil {
				return classify(err)
			}
			return writeOutput(cmd.OutOrStdout(), c.format, tables)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "TOML seed file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "group", Short: "Map a department or team label to a division"}
	cmd.AddCommand(&cobra.Command{
		Use:  "set LABEL DIVISION",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.SetGroup(cmd.Context(), args[0], args[1]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:  "clear LABEL",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.ClearGroup(cmd.Context(), args[0]))
		},
	})
	return cmd
}

func (c *cli) newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "order", Short: "Set sibling priority of a unit (lower sorts first)"}
	cmd.AddCommand(&cobra.Command{
		Use:  "set KEY PRIORITY",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return withCode(exitUsage, errors.Wrapf(err, "invalid priority %q", args[1]))
			}
			return classify(c.app.svc.SetPriority(cmd.Context(), nodekey.Key(args[0]), priority))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:  "clear KEY",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.ClearPriority(cmd.Context(), nodekey.Key(args[0])))
		},
	})
	return cmd
}

func (c *cli) newLeaderCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "leader", Short: "Override the leader of a unit"}
	cmd.AddCommand(&cobra.Command{
		Use:  "set KEY EMPLOYEE_ID",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.AssignLeader(cmd.Context(), nodekey.Key(args[0]), args[1]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:  "clear KEY",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.ClearLeader(cmd.Context(), nodekey.Key(args[0])))
		},
	})
	return cmd
}

func (c *cli) newMemberCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "member", Short: "Show an employee under an additional unit"}
	cmd.AddCommand(&cobra.Command{
		Use:  "add KEY EMPLOYEE_ID",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.AddCrossUnitMember(cmd.Context(), nodekey.Key(args[0]), args[1]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:  "remove KEY EMPLOYEE_ID",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(c.app.svc.RemoveCrossUnitMember(cmd.Context(), nodekey.Key(args[0]), args[1]))
		},
	})
	return cmd
}
