package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/couchcryptid/bikeshare-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	"github.com/couchcryptid/bikeshare-dashboard/internal/report"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every subcommand.
type options struct {
	dataPath   string
	lenient    bool
	format     string
	sampleRows int
	sampleSeed uint64
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "report",
		Short:         "Render bike-sharing dashboard views as text",
		Long:          `report loads an hourly bike-sharing dataset, prepares it the same way the dashboard service does, and prints a view or a single aggregate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.dataPath, "data", "data/hour.csv", "path to the hourly dataset CSV")
	f.BoolVar(&opts.lenient, "lenient", false, "keep unknown category codes instead of failing")
	f.StringVar(&opts.format, "format", "text", "output format: text or json")
	f.IntVar(&opts.sampleRows, "sample-rows", 10, "rows sampled by the overview view")
	f.Uint64Var(&opts.sampleSeed, "seed", 1, "seed for the overview sample")

	root.AddCommand(newViewCmd(opts), newAggregateCmd(opts), newListCmd())
	return root
}

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view <introduction|overview|visualizations>",
		Short: "Render one dashboard view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := domain.ParseView(args[0])
			if err != nil {
				return err
			}
			if err := opts.validate(); err != nil {
				return err
			}

			var table domain.Table
			if view != domain.ViewIntroduction {
				if table, err = opts.load(cmd.Context()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, buildView(view, table, opts))
			}
			return report.View(out, view, table, report.Options{SampleRows: opts.sampleRows, SampleSeed: opts.sampleSeed})
		},
	}
}

func newAggregateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate <name>",
		Short: "Render one aggregate (see 'report list')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := domain.Query(strings.ToLower(args[0]))
			if !slices.Contains(domain.Queries(), q) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownQuery, args[0])
			}
			if err := opts.validate(); err != nil {
				return err
			}

			table, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := domain.RunQuery(table, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, result)
			}
			return report.Aggregate(out, q, result)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available views and aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "[VIEWS]")
			for _, v := range domain.Views() {
				fmt.Fprintln(out, v)
			}
			fmt.Fprintln(out, "\n[AGGREGATES]")
			return report.Queries(out)
		},
	}
}

func (o *options) validate() error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("--format must be text or json, got %q", o.format)
	}
	if o.sampleRows < 0 {
		return fmt.Errorf("--sample-rows must not be negative")
	}
	return nil
}

func (o *options) load(ctx context.Context) (domain.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return csvfile.Prepare(ctx, o.dataPath, domain.PrepareOptions{Lenient: o.lenient})
}

func buildView(v domain.View, t domain.Table, o *options) any {
	switch v {
	case domain.ViewDataOverview:
		return domain.NewOverview(t, o.sampleRows, o.sampleSeed)
	case domain.ViewVisualizations:
		return domain.NewVisualizations(t, o.sampleRows, o.sampleSeed)
	default:
		return domain.NewIntroduction()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
