// Package cli is the clinicadmin command tree. Every command reads and
// writes server state through the cached query layer and the application
// services, exactly as the screens of the admin console do.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
	"github.com/dentalflow/clinicadmin/internal/query"
	"github.com/dentalflow/clinicadmin/internal/query/loaders"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// App is the wired application a command runs against
type App struct {
	Config       *config.Config
	API          *clinicapi.Client
	Session      *services.SessionService
	Guard        *services.AccessGuard
	Navigator    providers.Navigator
	Notifier     providers.Notifier
	Appointments *services.AppointmentService
	Tele         *services.TeleConsultService
	Queries      Queries
	Logger       zerolog.Logger
}

// Queries groups the cached resource facades
type Queries struct {
	Appointments *query.AppointmentQueries
	Patients     *query.PatientQueries
	Doctors      *query.DoctorQueries
	Branches     *query.BranchQueries
	Users        *query.UserQueries
	AuditLogs    *query.AuditLogQueries
	TeleSessions *query.TeleSessionQueries
	Clinical     *query.ClinicalQueries
}

// Options are the global flags that shape wiring
type Options struct {
	NoBrowser bool
	// Route is the logical screen the command stands for
	Route string
}

// Builder wires an App. The returned cleanup runs after the command finishes.
type Builder func(ctx context.Context, opts Options) (*App, func(), error)

// CLI holds per-invocation state shared by all commands
type CLI struct {
	build     Builder
	app       *App
	cleanup   func()
	out       io.Writer
	in        io.Reader
	output    string
	noBrowser bool
}

// Execute runs the command tree with args
func Execute(ctx context.Context, build Builder, in io.Reader, out, errOut io.Writer, args []string) error {
	c := &CLI{build: build, in: in, out: out}
	root := c.rootCmd()
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if c.cleanup != nil {
		c.cleanup()
	}
	return err
}

func (c *CLI) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinicadmin",
		Short:         "Dental clinic administration console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.output != "table" && c.output != "json" {
				return fmt.Errorf("unknown output format %q (table, json)", c.output)
			}
			app, cleanup, err := c.build(cmd.Context(), Options{NoBrowser: c.noBrowser, Route: routeOf(cmd)})
			if err != nil {
				return err
			}
			c.app, c.cleanup = app, cleanup
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.output, "output", "o", "table", "Output format: table or json")
	root.PersistentFlags().BoolVar(&c.noBrowser, "no-browser", false, "Print session links instead of opening a browser")

	root.AddCommand(c.loginCmd())
	root.AddCommand(c.logoutCmd())
	root.AddCommand(c.whoamiCmd())
	root.AddCommand(c.healthCmd())
	root.AddCommand(c.appointmentsCmd())
	root.AddCommand(c.teleCmd())
	root.AddCommand(c.patientsCmd())
	root.AddCommand(c.recordsCmd())
	root.AddCommand(c.consultationsCmd())
	root.AddCommand(c.doctorsCmd())
	root.AddCommand(c.branchesCmd())
	root.AddCommand(c.usersCmd())
	root.AddCommand(c.rolesCmd())
	root.AddCommand(c.auditLogsCmd())
	return root
}

// routeOf maps "clinicadmin appointments list" to "/appointments"
func routeOf(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	if len(parts) < 2 {
		return providers.RouteDashboard
	}
	return "/" + parts[1]
}

// requireSignedIn gates commands that need any valid session
func (c *CLI) requireSignedIn(ctx context.Context) error {
	return c.gate(ctx, c.app.Guard.RequireAuthenticated(ctx))
}

// require gates commands on a role capability
func (c *CLI) require(ctx context.Context, capability func(entities.RoleName) bool) error {
	return c.gate(ctx, c.app.Guard.Require(ctx, capability))
}

// gated is a PersistentPreRunE for command groups that share one capability.
// It replaces the root hook, so it wires the app first.
func (c *CLI) gated(capability func(entities.RoleName) bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return c.require(cmd.Context(), capability)
	}
}

func (c *CLI) gate(ctx context.Context, d services.Decision) error {
	if d.Allowed {
		return nil
	}
	if err := c.app.Navigator.Navigate(ctx, d.Redirect); err != nil {
		c.app.Logger.Warn().Err(err).Str("route", d.Redirect).Msg("navigation failed")
	}
	if d.Redirect == providers.RouteLogin {
		return services.ErrNotAuthenticated
	}
	return apperrors.NewForbiddenError("You do not have access to this page")
}

// report surfaces a failed read as an error toast and returns err
func (c *CLI) report(ctx context.Context, err error, fallback string) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, services.ErrNotAuthenticated) && !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
		c.app.Notifier.Notify(ctx, entities.Toast{Severity: entities.SeverityError, Message: apperrors.UserMessage(err, fallback)})
	}
	return err
}

// notifySuccess shows a success toast
func (c *CLI) notifySuccess(ctx context.Context, msg string) {
	c.app.Notifier.Notify(ctx, entities.Toast{Severity: entities.SeveritySuccess, Message: msg})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// idArg runs fn with the command's single id argument
func idArg(fn func(cmd *cobra.Command, id int64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return fn(cmd, id)
	}
}

// optionalString returns a pointer to the flag value if it was set
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// Loaders returns name loaders bound to the cached patient and doctor reads
func (a *App) Loaders() *loaders.Loaders {
	return loaders.NewLoaders(a.Queries.Patients, a.Queries.Doctors)
}
