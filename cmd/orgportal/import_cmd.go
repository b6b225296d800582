package main

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgportal/modules/roster/infrastructure/tabular"
	rosterservices "github.com/iota-uz/orgportal/modules/roster/services"
	"github.com/iota-uz/orgportal/pkg/composables"
)

type importOptions struct {
	file  string
	sheet string
	yes   bool
}

type importSummary struct {
	ImportID   uuid.UUID `json:"importId" yaml:"importId"`
	File       string    `json:"file" yaml:"file"`
	Sheet      string    `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	HeaderRow  int       `json:"headerRow" yaml:"headerRow"`
	Columns    []string  `json:"columns" yaml:"columns"`
	Parsed     int       `json:"parsed" yaml:"parsed"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Duplicates int       `json:"duplicates" yaml:"duplicates"`
	Companies  []string  `json:"companies" yaml:"companies"`
	Applied    bool      `json:"applied" yaml:"applied"`
}

func (c *cli) newImportCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Parse a roster spreadsheet and, with --yes, replace the stored roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Roster file: .xlsx, .xlsm, .csv or .tsv (required)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Apply the import (default is a dry run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) runImport(cmd *cobra.Command, opts importOptions) error {
	ctx := cmd.Context()
	if strings.TrimSpace(opts.file) == "" {
		return withCode(exitUsage, errors.New("--file is required"))
	}
	wb, err := tabular.Read(opts.file, opts.sheet)
	if err != nil {
		return classify(err)
	}
	ingester := rosterservices.NewIngester(append(c.app.ingest, rosterservices.With1904Dates(wb.Date1904))...)
	plan, err := ingester.Parse(wb.Rows)
	if err != nil {
		return classify(err)
	}

	summary := summarize(opts.file, wb.Sheet, plan)
	if opts.yes {
		if err := c.app.svc.ReplaceRoster(ctx, plan, true); err != nil {
			return classify(err)
		}
		summary.Applied = true
	}
	logImport(ctx, summary)
	return writeOutput(cmd.OutOrStdout(), c.format, summary)
}

func summarize(file, sheet string, plan *rosterservices.ImportResult) importSummary {
	columns := make([]string, 0, len(plan.Columns))
	for _, col := range rosterservices.Columns {
		if _, ok := plan.Columns[col.Field]; ok {
			columns = append(columns, string(col.Field))
		}
	}
	return importSummary{
		ImportID:   plan.ID,
		File:       file,
		Sheet:      sheet,
		HeaderRow:  plan.HeaderRow + 1,
		Columns:    columns,
		Parsed:     plan.Parsed,
		Skipped:    plan.Skipped,
		Duplicates: plan.Duplicates,
		Companies:  plan.Employees.Companies(),
	}
}

func logImport(ctx context.Context, s importSummary) {
	log, err := composables.UseLogger(ctx)
	if err != nil {
		return
	}
	log.WithFields(logrus.Fields{
		"import_id": s.ImportID,
		"parsed":    s.Parsed,
		"skipped":   s.Skipped,
		"applied":   s.Applied,
	}).Info("roster import")
}
