package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/database"
	"github.com/pfes/joborder-api/internal/logger"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jsonOutput bool

// app is the wiring shared by every subcommand
type app struct {
	cfg    *config.Config
	audit  *service.AuditLogService
	authz  *service.AuthService
	export *service.ExportService
}

func main() {
	root := &cobra.Command{
		Use:          "joborder-admin",
		Short:        "Administrative tasks for the job order API",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	root.AddCommand(userCmd())
	root.AddCommand(registerCmd())
	root.AddCommand(auditCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	loc := cfg.App.Location()
	audit := service.NewAuditLogService(repository.NewAuditLogRepository(db), log)
	a := &app{
		cfg:   cfg,
		audit: audit,
		// account management never issues tokens
		authz: service.NewAuthService(repository.NewUserRepository(db), nil, audit, log, cfg.Auth.BcryptCost),
	}

	st, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		log.Warn("register storage unavailable", zap.Error(err))
	} else {
		a.export = service.NewExportService(repository.NewJobOrderRepository(db), st, cfg.Jobs.ExportPrefix, log, loc)
	}

	return fn(ctx, a)
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Manage user accounts"}
	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userActiveCmd("disable", false))
	cmd.AddCommand(userActiveCmd("enable", true))
	return cmd
}

func userCreateCmd() *cobra.Command {
	var name, email, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("JOBORDER_ADMIN_PASSWORD")
			if password == "" {
				return fmt.Errorf("set JOBORDER_ADMIN_PASSWORD to the new account's password")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				user, err := a.authz.CreateUser(ctx, name, strings.ToLower(email), password, role)
				if err != nil {
					var verr *service.ValidationError
					if errors.As(err, &verr) {
						return fmt.Errorf("invalid account: %s", formatFields(verr.Fields))
					}
					return err
				}
				if jsonOutput {
					return printJSON(user)
				}
				fmt.Printf("created %s (%s) as %s\n", user.Email, user.ID, user.UserType)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&role, "role", "sales", "admin, sales or operations")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				users, err := a.authz.ListUsers(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(users)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Email", "Role", "Active"})
				for _, u := range users {
					tw.AppendRow(table.Row{u.ID, u.Name, u.Email, u.UserType, u.IsActive})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func userActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.authz.SetUserActive(ctx, strings.ToLower(args[0]), active); err != nil {
					if errors.Is(err, service.ErrNotFound) {
						return fmt.Errorf("no user with email %s", args[0])
					}
					return err
				}
				fmt.Printf("%s %sd\n", args[0], use)
				return nil
			})
		},
	}
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "register", Short: "Job order register archives"}
	cmd.AddCommand(&cobra.Command{
		Use:   "archive",
		Short: "Archive today's register now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if a.export == nil {
					return fmt.Errorf("register storage is not configured")
				}
				obj, err := a.export.ArchiveRegister(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("archived %s (%d bytes)\n", obj.Key, obj.Size)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if a.export == nil {
					return fmt.Errorf("register storage is not configured")
				}
				objects, err := a.export.ListArchives(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(objects)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Name", "Size", "Last Modified"})
				for _, o := range objects {
					tw.AppendRow(table.Row{o.Key, o.Size, o.LastModified.Format(time.RFC3339)})
				}
				tw.Render()
				return nil
			})
		},
	})
	return cmd
}

func auditCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{Use: "audit", Short: "Audit log maintenance"}
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				retention := a.cfg.Jobs.AuditRetention()
				if days > 0 {
					retention = time.Duration(days) * 24 * time.Hour
				}
				deleted, err := a.audit.Purge(ctx, retention)
				if err != nil {
					return err
				}
				fmt.Printf("deleted %d audit entries\n", deleted)
				return nil
			})
		},
	}
	purge.Flags().IntVar(&days, "days", 0, "retention in days (defaults to jobs.auditRetentionDays)")
	cmd.AddCommand(purge)
	return cmd
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fields[k]
	}
	return strings.Join(parts, "; ")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
