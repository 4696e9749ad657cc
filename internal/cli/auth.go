package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

func (c *CLI) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				fmt.Fprint(c.out, "Password: ")
				line, err := bufio.NewReader(c.in).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			draft := forms.LoginDraft{Email: email, Password: password}
			if err := draft.Validate(); err != nil {
				return err
			}
			cred, err := c.app.Session.Login(ctx, draft.Email, draft.Password)
			if err != nil {
				return c.report(ctx, err, "Login failed. Please check your credentials.")
			}
			if err := c.app.Navigator.Navigate(ctx, providers.RouteDashboard); err != nil {
				c.app.Logger.Warn().Err(err).Msg("navigation failed")
			}
			fmt.Fprintf(c.out, "Signed in as %s (%s)\n", cred.User.Email, orDash(cred.User.Role))
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Session.Logout(cmd.Context())
		},
	}
}

func (c *CLI) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			cred, err := c.app.Session.Current(ctx)
			if err != nil {
				return err
			}
			return c.render(cred.User, func(w io.Writer) {
				row(w, "EMAIL", "NAME", "ROLE", "SIGNED IN")
				row(w, cred.User.Email, orDash(cred.User.FullName), orDash(cred.User.Role), fmtTime(cred.IssuedAt))
			})
		},
	}
}

func (c *CLI) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var status map[string]interface{}
			if err := c.app.API.Get(cmd.Context(), "health", nil, &status); err != nil {
				c.app.Logger.Error().Err(err).Str("base_url", c.app.API.BaseURL()).Msg("health check failed")
				return apperrors.NewTransportError("Health check failed", err)
			}
			return c.render(status, func(w io.Writer) {
				row(w, "BACKEND", "STATUS")
				row(w, c.app.API.BaseURL(), status["status"])
			})
		},
	}
}
