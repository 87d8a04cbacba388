package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/auth"
	"github.com/clinicore/crm_admin_app/internal/core/registry"
	"github.com/clinicore/crm_admin_app/internal/core/settings"
	"github.com/clinicore/crm_admin_app/internal/logging"
	"github.com/clinicore/crm_admin_app/internal/session"
	"github.com/clinicore/crm_admin_app/internal/transport/rest"
	"github.com/clinicore/crm_admin_app/pkg/config"
)

// app bundles everything a command needs: config, logger, session and the
// controller set, wired the same way for every invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	session  *session.Session
	registry *registry.Registry
	auth     *auth.Service
	fields   *settings.FieldSettingsService
	company  *settings.CompanyService
}

// appHolder lets subcommands reach the app built in PersistentPreRunE.
type appHolder struct {
	app *app
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sess := session.New(session.NewFileStore(cfg.SessionFile))
	if err := sess.Restore(); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoSession):
			// Not logged in yet; commands that need a session will say so.
		case errors.Is(err, apperrors.ErrSessionExpired):
			logger.Warn("Stored session has expired, please log in again")
		default:
			logger.Warn("Could not restore session", slog.String("error", err.Error()))
		}
	}

	client := rest.New(cfg.APIBaseURL, cfg.RequestTimeout,
		rest.WithTokenSource(sess),
		rest.WithUnauthorizedHook(func(ctx context.Context) {
			logging.FromCtx(ctx).Warn("Backend rejected the session token, logging out")
			_ = sess.Clear()
		}))

	validate := validator.New(validator.WithRequiredStructEnabled())

	return &app{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		registry: registry.New(client, sess, sess, validate),
		auth:     auth.NewService(client, sess, sess, validate),
		fields:   settings.NewFieldSettingsService(client, sess),
		company:  settings.NewCompanyService(client, sess, validate),
	}, nil
}

func newRootCmd() *cobra.Command {
	holder := &appHolder{}

	cmd := &cobra.Command{
		Use:           "crmadmin",
		Short:         "Administrative client for the CRM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			holder.app = a
			cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
			return nil
		},
	}

	cmd.AddCommand(
		newLoginCmd(holder),
		newLogoutCmd(holder),
		newWhoamiCmd(holder),
		newPasswdCmd(holder),
		newSwitchScopeCmd(holder),
		newLedgerCmd(holder),
		newSubLedgerCmd(holder),
		newDepartmentCmd(holder),
		newLeadCmd(holder),
		newTaskCmd(holder),
		newClientCmd(holder),
		newFieldsCmd(holder),
		newCompanyCmd(holder),
	)
	cmd.AddCommand(newRefCmds(holder)...)

	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
