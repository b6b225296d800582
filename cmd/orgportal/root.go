package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgportal/modules/org/infrastructure/persistence"
	"github.com/iota-uz/orgportal/modules/org/services"
	rosterservices "github.com/iota-uz/orgportal/modules/roster/services"
	"github.com/iota-uz/orgportal/pkg/composables"
	"github.com/iota-uz/orgportal/pkg/configuration"
	"github.com/iota-uz/orgportal/pkg/eventbus"
	"github.com/iota-uz/orgportal/pkg/kvstore"
	"github.com/iota-uz/orgportal/pkg/logging"
)

type app struct {
	cfg *configuration.Configuration
	log *logrus.Logger
	svc *services.OrgService
	// ingest holds the options every import starts from.
	ingest  []rosterservices.IngesterOption
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newApp(cfg *configuration.Configuration, store kvstore.Store) *app {
	log := cfg.Logger()
	if log == nil {
		log = logging.ConsoleLogger(cfg.LogrusLogLevel())
	}
	entry := logrus.NewEntry(log)
	synth := services.NewSynthesizer(
		services.WithLocale(cfg.LocaleTag()),
		services.WithDefaultPriority(cfg.DefaultPriority),
		services.WithLogger(entry),
	)
	svc := services.NewOrgService(
		synth,
		persistence.NewRosterRepository(store),
		persistence.NewTablesRepository(store),
		eventbus.NewEventPublisher(log),
	)
	return &app{
		cfg: cfg,
		log: log,
		svc: svc,
		ingest: []rosterservices.IngesterOption{
			rosterservices.WithHeaderScanRows(cfg.HeaderScanRows),
			rosterservices.WithIngestLogger(entry),
		},
		closers: []func(){svc.Close},
	}
}

func openApp() (*app, error) {
	cfg := configuration.Use()
	store, err := kvstore.New(kvstore.Options{
		Backend:  cfg.Store.Backend,
		Dir:      cfg.Store.Dir,
		RedisURL: cfg.Store.RedisURL,
		Prefix:   cfg.Store.Prefix,
	})
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	a := newApp(cfg, store)
	if r, ok := store.(*kvstore.Redis); ok {
		a.closers = append(a.closers, func() { _ = r.Close() })
	}
	a.closers = append([]func(){cfg.Unload}, a.closers...)
	return a, nil
}

type cli struct {
	open   func() (*app, error)
	app    *app
	admin  bool
	format string
}

func newRootCmd(open func() (*app, error)) (*cobra.Command, *cli) {
	c := &cli{open: open}
	cmd := &cobra.Command{
		Use:           "orgportal",
		Short:         "Synthesize organization charts from employee rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.format = strings.ToLower(strings.TrimSpace(c.format))
			if c.format != formatJSON && c.format != formatYAML {
				return withCode(exitUsage, fmt.Errorf("invalid --format %q (expected json|yaml)", c.format))
			}
			a, err := c.open()
			if err != nil {
				return err
			}
			c.app = a
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = composables.WithLogger(ctx, logrus.NewEntry(a.log).WithField("cmd", cmd.Name()))
			ctx = composables.WithAdmin(ctx, c.admin || a.cfg.Admin)
			cmd.SetContext(ctx)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&c.admin, "admin", false, "Allow administrative changes (also ORG_ADMIN)")
	cmd.PersistentFlags().StringVar(&c.format, "format", formatJSON, "Output format: json|yaml")

	cmd.AddCommand(c.newImportCmd())
	cmd.AddCommand(c.newTreeCmd())
	cmd.AddCommand(c.newDirectoryCmd())
	cmd.AddCommand(c.newCompaniesCmd())
	cmd.AddCommand(c.newEmployeeCmd())
	cmd.AddCommand(c.newConfigCmd())
	return cmd, c
}

// runCommand executes the tree and closes the app whether or not RunE failed;
// cobra skips post-run hooks on error.
func runCommand(ctx context.Context, cmd *cobra.Command, c *cli) error {
	defer c.close()
	return cmd.ExecuteContext(ctx)
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// resolveCompany defaults to the only known company when none is given.
func (c *cli) resolveCompany(ctx context.Context, company string) (string, error) {
	company = strings.TrimSpace(company)
	if company != "" {
		return company, nil
	}
	companies, err := c.app.svc.Companies(ctx)
	if err != nil {
		return "", classify(err)
	}
	if len(companies) == 1 {
		return companies[0], nil
	}
	return "", withCode(exitUsage, errors.Errorf("--company is required (known: %s)", strings.Join(companies, ", ")))
}

func Execute() {
	cmd, c := newRootCmd(openApp)
	if err := runCommand(context.Background(), cmd, c); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
