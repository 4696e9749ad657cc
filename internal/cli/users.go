package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (c *CLI) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "users",
		Short:             "Manage staff accounts (admin)",
		PersistentPreRunE: c.gated(entities.RoleName.CanManageUsers),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users, err := c.app.Queries.Users.List(ctx)
			if err != nil {
				return c.report(ctx, err, "Failed to load users")
			}
			return c.render(users, func(w io.Writer) {
				row(w, "ID", "NAME", "EMAIL", "ROLE", "ACTIVE", "CREATED")
				for _, u := range users {
					row(w, u.ID, u.Name, u.Email, orDash(u.RoleName), yesNo(u.IsActive), fmtTime(u.CreatedAt))
				}
			})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft := forms.UserDraft{}
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Email, _ = cmd.Flags().GetString("email")
			draft.Phone, _ = cmd.Flags().GetString("phone")
			draft.Password, _ = cmd.Flags().GetString("password")
			draft.RoleID, _ = cmd.Flags().GetInt64("role")
			req, err := draft.Request()
			if err != nil {
				return err
			}
			u, err := c.app.Queries.Users.Create(ctx, req)
			if err != nil {
				return c.report(ctx, err, "Failed to create user")
			}
			c.notifySuccess(ctx, "User created successfully")
			return c.renderUser(u)
		},
	}
	create.Flags().String("name", "", "Full name")
	create.Flags().String("email", "", "Login email")
	create.Flags().String("phone", "", "Phone number")
	create.Flags().String("password", "", "Initial password")
	create.Flags().Int64("role", 0, "Role ID (see 'roles list')")

	setActive := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: idArg(func(cmd *cobra.Command, id int64) error {
				ctx := cmd.Context()
				u, err := c.app.Queries.Users.SetActive(ctx, id, active)
				if err != nil {
					return c.report(ctx, err, "Failed to update user status")
				}
				c.notifySuccess(ctx, "User "+use+"d successfully")
				return c.renderUser(u)
			}),
		}
	}

	assignRole := &cobra.Command{
		Use:   "assign-role <user-id> <role-id>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if _, err := c.app.Queries.Users.Role(ctx, ids[1]); err != nil {
				return c.report(ctx, err, "Unknown role")
			}
			u, err := c.app.Queries.Users.AssignRole(ctx, ids[0], ids[1])
			if err != nil {
				return c.report(ctx, err, "Failed to assign role")
			}
			c.notifySuccess(ctx, "Role assigned successfully")
			return c.renderUser(u)
		},
	}

	resetPassword := &cobra.Command{
		Use:   "reset-password <user-id>",
		Short: "Set a new password for a user",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			draft := forms.PasswordResetDraft{}
			draft.NewPassword, _ = cmd.Flags().GetString("password")
			if err := draft.Validate(); err != nil {
				return err
			}
			u, err := c.app.Queries.Users.ResetPassword(ctx, id, draft.NewPassword)
			if err != nil {
				return c.report(ctx, err, "Failed to reset password")
			}
			c.notifySuccess(ctx, "Password reset successfully")
			return c.renderUser(u)
		}),
	}
	resetPassword.Flags().String("password", "", "New password (at least 6 characters)")

	cmd.AddCommand(list, create,
		setActive("activate", "Activate a user", true),
		setActive("deactivate", "Deactivate a user", false),
		assignRole, resetPassword,
	)
	return cmd
}

func (c *CLI) renderUser(u *entities.User) error {
	return c.render(u, func(w io.Writer) {
		row(w, "ID", "NAME", "EMAIL", "ROLE", "ACTIVE")
		row(w, u.ID, u.Name, u.Email, orDash(u.RoleName), yesNo(u.IsActive))
	})
}

func (c *CLI) rolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "roles",
		Short:             "Roles (admin)",
		PersistentPreRunE: c.gated(entities.RoleName.CanManageUsers),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			roles, err := c.app.Queries.Users.Roles(ctx)
			if err != nil {
				return c.report(ctx, err, "Failed to load roles")
			}
			return c.render(roles, func(w io.Writer) {
				row(w, "ID", "NAME")
				for _, r := range roles {
					row(w, r.ID, r.Name)
				}
			})
		},
	})
	return cmd
}
