package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eduardofuncao/dbkit/internal/config"
	"github.com/eduardofuncao/dbkit/internal/styles"
	"github.com/eduardofuncao/dbkit/pkg/connector"
)

func (a *App) initCmd() *cobra.Command {
	var (
		conn     config.ConnectionYAML
		options  []string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "init <name> <db-type> <target>",
		Short: "Create a connection and make it current",
		Long: "Create a connection and make it current.\n\nSupported database types: " +
			strings.Join(connector.SupportedDatabases(), ", "),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, exists := a.config.Connections[args[0]]; exists {
				return fmt.Errorf("connection '%s' already exists", args[0])
			}
			dbType, ok := connector.CanonicalDbType(args[1])
			if !ok {
				return fmt.Errorf("unsupported database type %q", args[1])
			}
			conn.Name, conn.DBType, conn.Target = args[0], dbType, args[2]

			opts, err := parseKeyValues(options)
			if err != nil {
				return err
			}
			if len(opts) > 0 {
				conn.Options = opts
			}

			if noVerify {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning.Render("⚠ Saving without verifying the connection"))
			} else {
				c, err := a.connect(cmd.Context(), &conn)
				if err != nil {
					return err
				}
				_ = c.Disconnect(cmd.Context())
			}

			if err := a.config.AddConnection(&conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("✓ Connection created:"), connLabel(&conn))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&conn.User, "user", "u", "", "database user, ${VAR} references are resolved at connect time")
	f.StringVarP(&conn.Password, "password", "p", "", "database password, ${VAR} references are resolved at connect time")
	f.StringVar(&conn.LibDir, "lib-dir", "", "Oracle Instant Client directory")
	f.StringArrayVarP(&options, "option", "o", nil, "driver option as key=value (repeatable)")
	f.BoolVar(&noVerify, "no-verify", false, "save without connecting first")
	return cmd
}

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [connections|queries]",
		Short:     "List connections or the saved queries of the current connection",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"connections", "queries"},
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "connections"
			if len(args) == 1 {
				what = args[0]
			}
			out := cmd.OutOrStdout()

			switch what {
			case "connections":
				if len(a.config.Connections) == 0 {
					fmt.Fprintln(out, styles.Faint.Render("No connections configured"))
					return nil
				}
				for _, name := range sortedKeys(a.config.Connections) {
					conn := a.config.Connections[name]
					marker := " "
					if name == a.config.CurrentConnection {
						marker = styles.Success.Render("●")
					}
					fmt.Fprintf(out, "%s %s %s\n", marker, connLabel(conn), styles.Faint.Render(conn.Target))
				}
			case "queries":
				conn, err := a.config.Current()
				if err != nil {
					return err
				}
				queries := make([]config.Query, 0, len(conn.Queries))
				for _, q := range conn.Queries {
					queries = append(queries, q)
				}
				slices.SortFunc(queries, func(x, y config.Query) int { return x.Id - y.Id })
				for _, q := range queries {
					fmt.Fprintf(out, "%s %s\n%s\n",
						styles.Faint.Render(fmt.Sprintf("◆ %d/", q.Id)), styles.Title.Render(q.Name), q.SQL)
				}
			default:
				return fmt.Errorf("unknown list target %q, want connections or queries", what)
			}
			return nil
		},
	}
}

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.config.Current()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Success.Render("● Currently using:"), connLabel(conn))
			fmt.Fprintln(out, styles.Faint.Render("  target: "+conn.Target))
			if conn.User != "" {
				fmt.Fprintln(out, styles.Faint.Render("  user:   "+conn.User))
			}
			if conn.LibDir != "" {
				fmt.Fprintln(out, styles.Faint.Render("  client: "+conn.LibDir))
			}
			return nil
		},
	}
}

func (a *App) switchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "switch <connection>",
		Aliases: []string{"use"},
		Short:   "Set the current connection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.config.Switch(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("✓ Switched to:"), connLabel(conn))
			return nil
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	var query bool

	cmd := &cobra.Command{
		Use:   "remove <connection>",
		Short: "Remove a connection, or a saved query with --query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if query {
				q, err := a.config.RemoveQuery(a.config.CurrentConnection, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, styles.Success.Render("✓ Query removed:"), styles.Title.Render(q.Name))
				return nil
			}

			if err := a.config.RemoveConnection(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, styles.Success.Render("✓ Connection removed:"), styles.Title.Render(args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&query, "query", "q", false, "remove a saved query (name or id) of the current connection")
	return cmd
}

func (a *App) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <query-name> <sql>",
		Short: "Save a query on the current connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.config.CurrentConnection == "" {
				_, err := a.config.Current()
				return err
			}
			q, err := a.config.SaveQueryToConnection(a.config.CurrentConnection, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				styles.Success.Render("✓ Query saved:"), styles.Title.Render(q.Name), styles.Faint.Render(fmt.Sprintf("(id %d)", q.Id)))
			return nil
		},
	}
}

// parseKeyValues turns repeated key=value flags into a map. Later keys win.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[k] = v
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
