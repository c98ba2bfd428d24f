package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/jobs-tracker/internal/app"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/result"
)

// withApp loads configuration, opens the store and runs fn against it.
func withApp(cmd *cobra.Command, migrate bool, fn func(ctx context.Context, a *app.App) error) error {
	cfg := common.LoadConfig()
	if migrate {
		cfg.Database.AutoMigrate = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := common.NewLogger(cfg.Log, cmd.ErrOrStderr())

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// emit prints the outcome payload as JSON and turns failures into an error.
func emit(w io.Writer, o result.Outcome) error {
	if o.Kind != result.KindOK {
		return errors.Newf("%s: %s", o.Kind, o.Message)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o.Payload())
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Newf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// parseFields turns repeated key=value flags into a field map. Values are
// decoded as JSON when possible so numbers, booleans, null and objects keep
// their type; anything else is taken as a plain string.
func parseFields(pairs []string) (entity.Fields, error) {
	fields := entity.Fields{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf("invalid field %q: expected key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all job records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				return emit(cmd.OutOrStdout(), result.FromJobs(a.Jobs.List(ctx)))
			})
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				return emit(cmd.OutOrStdout(), result.FromJob(a.Jobs.Get(ctx, id)))
			})
		},
	}
}

func newCreateCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := parseFields(pairs)
			if err != nil {
				return err
			}
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				return emit(cmd.OutOrStdout(), result.FromJob(a.Jobs.Create(ctx, fields)))
			})
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "field", "f", nil, "field value as key=value (repeatable)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := parseFields(pairs)
			if err != nil {
				return err
			}
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				return emit(cmd.OutOrStdout(), result.FromJob(a.Jobs.Update(ctx, id, fields)))
			})
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "field", "f", nil, "field value as key=value (repeatable)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				return emit(cmd.OutOrStdout(), result.FromDelete(a.Jobs.Delete(ctx, id)))
			})
		},
	}
}

func newResultTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result-types",
		Short: "Print the configured result values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := common.LoadConfig()
			for _, v := range cfg.Records.ResultTypes {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var out, from, to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write job records to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}
			toDate, err := parseDate(to)
			if err != nil {
				return err
			}
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				data, err := a.Exporter.ExportJobsXLSX(ctx, fromDate, toDate)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", out)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "jobs.xlsx", "output file")
	cmd.Flags().StringVar(&from, "from", "", "earliest applied date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest applied date (YYYY-MM-DD)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, true, func(context.Context, *app.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, errors.Newf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return &t, nil
}
