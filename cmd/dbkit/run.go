package main

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eduardofuncao/dbkit/internal/config"
	"github.com/eduardofuncao/dbkit/internal/render"
	"github.com/eduardofuncao/dbkit/internal/spinner"
	"github.com/eduardofuncao/dbkit/internal/styles"
	"github.com/eduardofuncao/dbkit/pkg/connector"
	"github.com/eduardofuncao/dbkit/pkg/export"
)

type queryFlags struct {
	args  []string
	named []string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.args, "arg", "a", nil, "positional bind argument (repeatable)")
	cmd.Flags().StringArrayVarP(&f.named, "named", "n", nil, "named bind argument as key=value (repeatable)")
}

// bindArgs builds the driver arguments. Positional and named arguments
// cannot be mixed.
func (f *queryFlags) bindArgs() ([]any, error) {
	if len(f.args) > 0 && len(f.named) > 0 {
		return nil, fmt.Errorf("--arg and --named cannot be combined")
	}
	if len(f.named) > 0 {
		kv, err := parseKeyValues(f.named)
		if err != nil {
			return nil, err
		}
		named := make(map[string]any, len(kv))
		for k, v := range kv {
			named[k] = v
		}
		return connector.Named(named), nil
	}

	args := make([]any, len(f.args))
	for i, a := range f.args {
		args[i] = a
	}
	return args, nil
}

// resolveQuery returns the saved query matching selector (by name or id),
// or an unnamed query holding selector as raw SQL.
func resolveQuery(conn *config.ConnectionYAML, selector string) config.Query {
	if q, ok := config.FindQueryWithSelector(conn.Queries, selector); ok {
		return q
	}
	return config.Query{SQL: selector}
}

type queryOutcome struct {
	result  *connector.QueryResult
	elapsed time.Duration
}

// execute runs query against the current connection behind a spinner and
// records it as the connection's last query.
func (a *App) execute(ctx context.Context, selector string, flags *queryFlags) (*queryOutcome, error) {
	conn, err := a.config.Current()
	if err != nil {
		return nil, err
	}
	args, err := flags.bindArgs()
	if err != nil {
		return nil, err
	}
	query := resolveQuery(conn, selector)

	c, err := a.connect(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer c.Disconnect(ctx)

	var (
		out     queryOutcome
		execErr error
	)
	spinner.Run(func() {
		start := time.Now()
		out.result, execErr = c.ExecuteQuery(ctx, query.SQL, args...)
		out.elapsed = time.Since(start)
	})
	if execErr != nil {
		return nil, execErr
	}

	if err := a.config.UpdateLastQuery(conn.Name, query); err != nil {
		a.log.Warn("could not record last query", zap.Error(err))
	}
	return &out, nil
}

func (a *App) runCmd() *cobra.Command {
	var (
		flags  queryFlags
		format string
		table  string
		copyTo bool
	)

	cmd := &cobra.Command{
		Use:   "run <query-name | id | sql>",
		Short: "Run a saved query or raw SQL on the current connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var exportFormat export.Format
			if format != "" || copyTo {
				name := format
				if name == "" {
					name = string(export.TSV)
				}
				f, err := export.ParseFormat(name)
				if err != nil {
					return err
				}
				exportFormat = f
			}

			out, err := a.execute(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.result == nil {
				fmt.Fprintln(w, styles.Success.Render("✓ Statement executed"),
					styles.Faint.Render(fmt.Sprintf("in %s", out.elapsed.Round(time.Millisecond))))
				return nil
			}

			var formatted string
			if exportFormat != "" {
				if formatted, err = export.Render(out.result, exportFormat, table); err != nil {
					return err
				}
			}

			if copyTo {
				if err := clipboard.WriteAll(formatted); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Success.Render(
					fmt.Sprintf("✓ Copied %d rows as %s", len(out.result.Rows), exportFormat)))
			}

			if format != "" {
				fmt.Fprint(w, formatted)
				return nil
			}
			fmt.Fprintln(w, render.Table(out.result, render.DefaultCellWidth))
			fmt.Fprintln(w, render.Footer(len(out.result.Rows), out.elapsed.Round(time.Millisecond)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "print as csv, json, tsv, html, sql or markdown instead of a table")
	cmd.Flags().StringVar(&table, "table", "", "table name for the sql format")
	cmd.Flags().BoolVarP(&copyTo, "copy", "c", false, "copy the formatted result to the clipboard (tsv unless --format is set)")
	return cmd
}

func (a *App) exportCmd() *cobra.Command {
	var (
		flags queryFlags
		path  string
	)

	cmd := &cobra.Command{
		Use:   "export <query-name | id | sql>",
		Short: "Run a query and write the result to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.execute(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}
			if out.result == nil {
				return fmt.Errorf("statement returned no result set, nothing to export")
			}
			if err := export.ToCSVFile(out.result, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render(
				fmt.Sprintf("✓ Exported %d rows to", len(out.result.Rows))), styles.Title.Render(path))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&path, "out", "o", "", "destination CSV file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
