package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/target/batch-explorer/internal/bootstrap"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationField(field, field+" must be an integer")
	}
	return id, nil
}

type countResult struct {
	Filter model.ExecutionFilter `json:"filter"`
	Total  int                   `json:"total"`
}

func newCountCmd(a *app) *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count job executions matching a filter",
		Example: `  batch-explorer count --name nightly-etl
  batch-explorer count --status FAILED --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filter.build(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}
			total, err := svc.Explorer.Count(ctx, f)
			if err != nil {
				return err
			}
			return a.render(cmd, countResult{Filter: f, Total: total}, func(tw *tabwriter.Writer) {
				_, _ = fmt.Fprintln(tw, total)
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		filter    filterFlags
		start     int
		count     int
		stepCount bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job executions newest first, one window at a time",
		Example: `  # Second page of 20
  batch-explorer list --name nightly-etl --start 20 --count 20

  # Failed runs with their step counts
  batch-explorer list --status FAILED --step-count

  # Ids only
  batch-explorer list --from 2024-03-01T00:00:00Z --to 2024-03-02T00:00:00Z -o json -q 'items[].id'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filter.build(cmd)
			if err != nil {
				return err
			}
			q := model.ExecutionQuery{Filter: f, Start: start, Count: count}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}

			if stepCount {
				page, err := svc.Explorer.StepCountPage(ctx, q)
				if err != nil {
					return err
				}
				return a.render(cmd, page, func(tw *tabwriter.Writer) {
					stepCountTable(tw, page.Items)
					pageFooter(tw, page.Start, len(page.Items), page.Total, page.HasMore())
				})
			}
			page, err := svc.Explorer.Page(ctx, q)
			if err != nil {
				return err
			}
			return a.render(cmd, page, func(tw *tabwriter.Writer) {
				executionTable(tw, page.Items)
				pageFooter(tw, page.Start, len(page.Items), page.Total, page.HasMore())
			})
		},
	}
	filter.register(cmd)
	cmd.Flags().IntVar(&start, "start", 0, "0-based position of the first row")
	cmd.Flags().IntVar(&count, "count", 0, "Window size (0 uses EXPLORER_DEFAULT_PAGE_SIZE)")
	cmd.Flags().BoolVar(&stepCount, "step-count", false, "Include the number of steps of each execution")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <execution-id>",
		Short: "Show one job execution with its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("execution_id", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}
			exec, err := svc.Explorer.Get(ctx, id)
			if err != nil {
				return err
			}
			return a.render(cmd, exec, func(tw *tabwriter.Writer) { executionDetail(tw, exec) })
		},
	}
}

func newLatestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <instance-id>",
		Short: "Show the newest execution of a job instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("instance_id", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}
			exec, err := svc.Explorer.Latest(ctx, id)
			if err != nil {
				return err
			}
			return a.render(cmd, exec, func(tw *tabwriter.Writer) { executionDetail(tw, exec) })
		},
	}
}

func newRunningCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "running [job-name]",
		Short: "List executions that have started and not ended",
		Long:  "List running executions of one job, or of every job when no name is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}
			execs, err := svc.Explorer.Running(ctx, name)
			if err != nil {
				return err
			}
			if execs == nil {
				execs = []*model.JobExecution{}
			}
			return a.render(cmd, execs, func(tw *tabwriter.Writer) { executionTable(tw, execs) })
		},
	}
}

type instanceResult struct {
	Instance   *model.JobInstance    `json:"instance"`
	Executions []*model.JobExecution `json:"executions,omitempty"`
}

func newInstanceCmd(a *app) *cobra.Command {
	var withExecutions bool
	cmd := &cobra.Command{
		Use:   "instance <instance-id>",
		Short: "Show a job instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("instance_id", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			svc, err := a.explorer(ctx)
			if err != nil {
				return err
			}
			inst, err := svc.Explorer.Instance(ctx, id)
			if err != nil {
				return err
			}
			result := instanceResult{Instance: inst}
			if withExecutions {
				if result.Executions, err = svc.Explorer.InstanceExecutions(ctx, id); err != nil {
					return err
				}
			}
			return a.render(cmd, result, func(tw *tabwriter.Writer) {
				instanceTable(tw, inst)
				if withExecutions {
					_, _ = fmt.Fprintln(tw)
					executionTable(tw, result.Executions)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&withExecutions, "executions", false, "Also list the instance's executions, newest first")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the local batch metadata schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the batch tables of BATCH_SCHEMA_VERSION in the configured store (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.IsDev {
				return apperrors.Validation("schema init requires development mode (DEV=true)")
			}
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			if err := a.connect(ctx, true); err != nil {
				return err
			}
			if err := bootstrap.RunMigrations(ctx, a.db, a.dialect, a.cfg.Batch); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "schema initialized",
				"schema_version", string(a.cfg.Batch.SchemaVersion),
				"driver", a.dialect.Name(),
			)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s schema ready\n", a.cfg.Batch.SchemaVersion)
			return err
		},
	})
	return cmd
}
