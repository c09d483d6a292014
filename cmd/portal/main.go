package main

import (
	"context"
	"fmt"
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/department-portal/pkg/logger"
	"github.com/Astemirdum/department-portal/portal/app"
	"github.com/Astemirdum/department-portal/portal/config"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title Department portal API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

//go:generate go run github.com/swaggo/swag/cmd/swag init -g main.go -d ./,../../portal/internal/handler,../../portal/internal/model -o ../../swagger --outputTypes go
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portal",
		Short:        "Department admin portal",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), importVerifiedCmd(), approveUserCmd(), markOverdueCmd())
	return root
}

func loadConfig() *config.Config {
	return config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			app.Run(cfg, logger.NewLogger(cfg.Log, "portal"))
		},
	}
}

// withPortal runs fn against a freshly wired portal and closes it afterwards.
func withPortal(cmd *cobra.Command, fn func(ctx context.Context, p *app.Portal) error) error {
	cfg := loadConfig()
	log := logger.NewLogger(cfg.Log, "portal-cli")
	defer log.Sync() //nolint:errcheck
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("memory storage: changes are lost when the command exits")
	}

	ctx := cmd.Context()
	p, err := app.NewPortal(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Error("portal.Close", zap.Error(err))
		}
	}()
	return fn(ctx, p)
}

func importVerifiedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import-verified",
		Short: "Import verified email -> role pairs from a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			items, err := app.ReadVerifiedEmails(f)
			if err != nil {
				return err
			}
			return withPortal(cmd, func(ctx context.Context, p *app.Portal) error {
				added, err := p.Service.AddVerifiedEmails(ctx, items)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "read %d entries, added %d\n", len(items), added)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the import file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func approveUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve-user ID",
		Short: "Activate a pending user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *app.Portal) error {
				user, err := p.Service.ApproveUser(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> is %s\n", user.Name, user.Email, user.Status)
				return nil
			})
		},
	}
}

func markOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag issued loans past the loan period as Late",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *app.Portal) error {
				late, err := p.Service.MarkOverdue(ctx)
				if err != nil {
					return err
				}
				for _, r := range late {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", r.ID, r.BookTitle, r.UserName, r.IssueDate)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) marked Late\n", len(late))
				return nil
			})
		},
	}
}
