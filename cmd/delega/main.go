package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"delega/internal/app"
	"delega/internal/config"
	"delega/internal/db"
	"delega/internal/domain"
	"delega/internal/engine"
	"delega/internal/logging"
	"delega/internal/repo"
	"delega/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "delega",
	Short: "Delega judicial process CLI",
	Long: `Delega records judicial processes linking an author, an accused and a lawyer.
- Workspace: the .delega directory holding the SQLite database; delega.yml sits next to it.
- Registry: persons and lawyers referenced by cases (delega person / delega lawyer).
- Processes: created with 'delega process create', moved to in_progress with 'delega process start'.
- Validation: messages follow validation.locale in delega.yml (en or pt_BR).
- Event log: every registration and case change, view with 'delega log tail'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := db.EnsureWorkspace(viper.GetString("workspace"))
		return err
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DELEGA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor recorded on events")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	for _, name := range []string{"workspace", "json", "actor-id", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(personCmd())
	rootCmd.AddCommand(lawyerCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(tokenCmd())
}

func newLogger() (*slog.Logger, error) {
	return logging.New(os.Stderr, viper.GetString("log-level"), viper.GetString("log-format"))
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace database and a default delega.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Printf("Keeping existing %s\n", path)
			} else {
				if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", path)
			}
			ws, err := app.Open(cmd.Context(), app.Options{Workspace: workspace})
			if err != nil {
				return err
			}
			defer ws.Close()
			fmt.Printf("Database %s at schema version %d\n", db.Path(workspace), ws.SchemaVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing delega.yml")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := viper.GetString("jwt-secret")
			if secret == "" {
				return fmt.Errorf("DELEGA_JWT_SECRET is required for bearer auth")
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			ws, err := app.Open(cmd.Context(), app.Options{
				Workspace:  viper.GetString("workspace"),
				Logger:     logger,
				Registerer: reg,
			})
			if err != nil {
				return err
			}
			defer ws.Close()
			if !cmd.Flags().Changed("addr") && ws.Config.Server.Addr != "" {
				addr = ws.Config.Server.Addr
			}
			if !cmd.Flags().Changed("base-path") && ws.Config.Server.BasePath != "" {
				basePath = ws.Config.Server.BasePath
			}
			handler, err := server.New(server.Config{
				Engine:   ws.Engine,
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: secret, Logger: logger},
				Logger:   logger,
				Gatherer: reg,
			})
			if err != nil {
				return err
			}
			server.StartWebhooks(cmd.Context(), ws.Engine.Repo, ws.Config, logger)

			srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			logger.Info("serving Delega API", "addr", addr, "base_path", basePath, "openapi", basePath+"/openapi.json", "docs", "/docs")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v1", "API base path")
	cmd.Flags().String("jwt-secret", "", "HS256 secret for bearer tokens (env DELEGA_JWT_SECRET)")
	_ = viper.BindPFlag("jwt-secret", cmd.Flags().Lookup("jwt-secret"))
	return cmd
}

func personCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "person", Short: "Manage the person registry"}

	var first, last, cpf string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.RegisterPerson(ctx, domain.Person{FirstName: first, LastName: last, Cpf: cpf})
				if err != nil {
					return err
				}
				return printPersons([]domain.Person{p})
			})
		},
	}
	add.Flags().StringVar(&first, "first-name", "", "first name")
	add.Flags().StringVar(&last, "last-name", "", "last name")
	add.Flags().StringVar(&cpf, "cpf", "", "CPF, 11 digits")
	_ = add.MarkFlagRequired("first-name")
	_ = add.MarkFlagRequired("cpf")

	list := &cobra.Command{
		Use:   "list",
		Short: "List persons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListPersons(ctx)
				if err != nil {
					return err
				}
				return printPersons(items)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				p, err := r.GetPerson(ctx, id)
				if err != nil {
					return fmt.Errorf("person %d: %w", id, err)
				}
				return printPersons([]domain.Person{p})
			})
		},
	}
	cmd.AddCommand(add, list, show)
	return cmd
}

func lawyerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "lawyer", Short: "Manage the lawyer registry"}

	var first, last, cpf, oab string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a lawyer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, err := e.RegisterLawyer(ctx, domain.Lawyer{FirstName: first, LastName: last, Cpf: cpf, OAB: oab})
				if err != nil {
					return err
				}
				return printLawyers([]domain.Lawyer{l})
			})
		},
	}
	add.Flags().StringVar(&first, "first-name", "", "first name")
	add.Flags().StringVar(&last, "last-name", "", "last name")
	add.Flags().StringVar(&cpf, "cpf", "", "CPF, 11 digits")
	add.Flags().StringVar(&oab, "oab", "", "OAB registration")
	_ = add.MarkFlagRequired("first-name")
	_ = add.MarkFlagRequired("cpf")
	_ = add.MarkFlagRequired("oab")

	list := &cobra.Command{
		Use:   "list",
		Short: "List lawyers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListLawyers(ctx)
				if err != nil {
					return err
				}
				return printLawyers(items)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a lawyer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				l, err := r.GetLawyer(ctx, id)
				if err != nil {
					return fmt.Errorf("lawyer %d: %w", id, err)
				}
				return printLawyers([]domain.Lawyer{l})
			})
		},
	}
	cmd.AddCommand(add, list, show)
	return cmd
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "process",
		Aliases: []string{"case"},
		Short:   "Manage judicial processes",
	}
	cmd.AddCommand(processCreateCmd(), processShowCmd(), processListCmd(), processStartCmd())
	return cmd
}

func processCreateCmd() *cobra.Command {
	var req domain.CreateJudicialProcessRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a judicial process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				view, err := e.AddJudicialProcess(ctx, req)
				if err != nil {
					return err
				}
				return printViews([]domain.JudicialProcessView{view})
			})
		},
	}
	cmd.Flags().Int64Var(&req.AuthorID, "author", 0, "author person id")
	cmd.Flags().Int64Var(&req.AccusedID, "accused", 0, "accused person id")
	cmd.Flags().Int64Var(&req.LawyerID, "lawyer", 0, "lawyer id")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "reason for the process")
	cmd.Flags().Float64Var(&req.RequestedValue, "value", 0, "requested value")
	cmd.Flags().StringVar(&req.AuthorDepoiment, "depoiment", "", "author depoiment")
	for _, name := range []string{"author", "accused", "lawyer", "reason"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func processShowCmd() *cobra.Command {
	var relations bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a judicial process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if relations {
					p, err := e.GetJudicialProcessWithRelations(ctx, id)
					if err != nil {
						return fmt.Errorf("judicial process %d: %w", id, err)
					}
					return printJSON(p)
				}
				view, err := e.GetJudicialProcess(ctx, id)
				if err != nil {
					return fmt.Errorf("judicial process %d: %w", id, err)
				}
				return printViews([]domain.JudicialProcessView{view})
			})
		},
	}
	cmd.Flags().BoolVar(&relations, "relations", false, "print the full record with parties and lawyer as JSON")
	return cmd
}

func processListCmd() *cobra.Command {
	var relations bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List judicial processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if relations {
					items, err := e.ListJudicialProcessesWithRelations(ctx)
					if err != nil {
						return err
					}
					return printJSON(items)
				}
				items, err := e.ListJudicialProcesses(ctx)
				if err != nil {
					return err
				}
				return printViews(items)
			})
		},
	}
	cmd.Flags().BoolVar(&relations, "relations", false, "print full records as JSON")
	return cmd
}

func processStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Move a judicial process to in_progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.SetInProgress(ctx, id)
				if err != nil {
					return err
				}
				return printViews([]domain.JudicialProcessView{p.View()})
			})
		},
	}
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "Every registration and judicial process change, newest first.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var filter repo.EventFilter
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				events, err := r.LatestEvents(ctx, n, filter)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := newTable("ID", "TS", "Type", "Entity", "Actor", "Payload")
				for _, evt := range events {
					tw.AppendRow(table.Row{evt.ID, evt.TS, evt.Type, evt.EntityKind + ":" + evt.EntityID, evt.ActorID, evt.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&filter.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&filter.EntityKind, "entity-kind", "", "entity kind filter")
	cmd.Flags().StringVar(&filter.EntityID, "entity-id", "", "entity id filter")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect delega.yml",
		Long:  "delega.yml selects the validation locale, limits and message overrides, the server address and webhooks.",
	}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate delega.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(viper.GetString("workspace")); err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	})
	return cfg
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "Bearer tokens for the HTTP API"}
	var subject string
	var perms []string
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an HS256 token signed with DELEGA_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(perms) == 0 {
				perms = server.AllPermissions
			}
			token, err := server.IssueToken(viper.GetString("jwt-secret"), subject, perms, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "actor id placed in the sub claim")
	issue.Flags().StringSliceVar(&perms, "permission", nil, "permission to grant (repeatable, default all)")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	issue.Flags().String("jwt-secret", "", "HS256 secret (env DELEGA_JWT_SECRET)")
	_ = issue.MarkFlagRequired("subject")
	issue.PreRunE = func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlag("jwt-secret", cmd.Flags().Lookup("jwt-secret"))
	}
	cmd.AddCommand(issue)
	return cmd
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	ws, err := app.Open(ctx, app.Options{Workspace: viper.GetString("workspace"), Logger: logger})
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(engine.WithActor(ctx, viper.GetString("actor-id")), ws.Engine)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	ws, err := app.Open(ctx, app.Options{Workspace: viper.GetString("workspace")})
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ctx, ws.Engine.Repo)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row(header))
	return tw
}

func printPersons(items []domain.Person) error {
	if viper.GetBool("json") {
		return printJSON(items)
	}
	tw := newTable("ID", "Name", "CPF", "Created")
	for _, p := range items {
		tw.AppendRow(table.Row{p.ID, p.FullName(), p.Cpf, p.CreatedAt.Format(time.RFC3339)})
	}
	tw.Render()
	return nil
}

func printLawyers(items []domain.Lawyer) error {
	if viper.GetBool("json") {
		return printJSON(items)
	}
	tw := newTable("ID", "Name", "CPF", "OAB", "Created")
	for _, l := range items {
		tw.AppendRow(table.Row{l.ID, l.FullName(), l.Cpf, l.OAB, l.CreatedAt.Format(time.RFC3339)})
	}
	tw.Render()
	return nil
}

func printViews(items []domain.JudicialProcessView) error {
	if viper.GetBool("json") {
		return printJSON(items)
	}
	tw := newTable("ID", "Protocol", "Status", "Author", "Accused", "Lawyer", "Value")
	for _, v := range items {
		tw.AppendRow(table.Row{v.ID, v.Protocol, v.Status, v.AuthorName, v.AccusedName, v.LawyerName, fmt.Sprintf("%.2f", v.RequestedValue)})
	}
	tw.Render()
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
