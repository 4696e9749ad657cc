package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/query"
)

func (c *CLI) branchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "branches",
		Short:             "Manage clinic branches (admin)",
		PersistentPreRunE: c.gated(entities.RoleName.CanManageBranches),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			branches, err := c.app.Queries.Branches.List(ctx)
			if err != nil {
				return c.report(ctx, err, "Failed to load branches")
			}
			return c.render(branches, func(w io.Writer) {
				row(w, "ID", "NAME", "ADDRESS", "PHONE", "ACTIVE")
				for _, b := range branches {
					row(w, b.ID, b.Name, orDash(b.Address), orDash(b.Phone), yesNo(b.IsActive))
				}
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a branch with its staff",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			b, err := c.app.Queries.Branches.Get(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load branch")
			}
			return c.render(b, func(w io.Writer) {
				row(w, "ID", b.ID)
				row(w, "Name", b.Name)
				row(w, "Address", orDash(b.Address))
				row(w, "Phone", orDash(b.Phone))
				row(w, "Active", yesNo(b.IsActive))
				for _, u := range b.Users {
					row(w, "User", fmt.Sprintf("#%d %s", u.ID, u.Name))
				}
				for _, d := range b.Doctors {
					row(w, "Doctor", fmt.Sprintf("#%d %s", d.ID, d.Name))
				}
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Open a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft := forms.BranchDraft{}
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Address, _ = cmd.Flags().GetString("address")
			draft.Phone, _ = cmd.Flags().GetString("phone")
			req, err := draft.Request()
			if err != nil {
				return err
			}
			b, err := c.app.Queries.Branches.Create(ctx, req)
			if err != nil {
				return c.report(ctx, err, "Failed to create branch")
			}
			c.notifySuccess(ctx, "Branch created successfully")
			return c.renderBranch(b)
		},
	}
	branchFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a branch",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			req := &entities.UpdateBranchRequest{
				Name:    optionalString(cmd, "name"),
				Address: optionalString(cmd, "address"),
				Phone:   optionalString(cmd, "phone"),
			}
			b, err := c.app.Queries.Branches.Update(ctx, id, req)
			if err != nil {
				return c.report(ctx, err, "Failed to update branch")
			}
			c.notifySuccess(ctx, "Branch updated successfully")
			return c.renderBranch(b)
		}),
	}
	branchFlags(update)

	activate := &cobra.Command{
		Use:   "activate <id>",
		Short: "Reopen a branch",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			b, err := c.app.Queries.Branches.Activate(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to activate branch")
			}
			c.notifySuccess(ctx, "Branch activated successfully")
			return c.renderBranch(b)
		}),
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Close a branch",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			b, err := c.app.Queries.Branches.Deactivate(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to deactivate branch")
			}
			c.notifySuccess(ctx, "Branch deactivated successfully")
			return c.renderBranch(b)
		}),
	}

	cmd.AddCommand(list, show, create, update, activate, deactivate,
		c.membershipCmd("assign-user <branch-id> <user-id>", "Add a user to a branch", "User assigned successfully",
			func(q *query.BranchQueries) membershipOp { return q.AssignUser }),
		c.membershipCmd("unassign-user <branch-id> <user-id>", "Remove a user from a branch", "User removed successfully",
			func(q *query.BranchQueries) membershipOp { return q.UnassignUser }),
		c.membershipCmd("assign-doctor <branch-id> <doctor-id>", "Add a doctor to a branch", "Doctor assigned successfully",
			func(q *query.BranchQueries) membershipOp { return q.AssignDoctor }),
		c.membershipCmd("unassign-doctor <branch-id> <doctor-id>", "Remove a doctor from a branch", "Doctor removed successfully",
			func(q *query.BranchQueries) membershipOp { return q.UnassignDoctor }),
	)
	return cmd
}

type membershipOp func(ctx context.Context, branchID, memberID int64) error

func (c *CLI) membershipCmd(use, short, done string, op func(*query.BranchQueries) membershipOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := op(c.app.Queries.Branches)(ctx, ids[0], ids[1]); err != nil {
				return c.report(ctx, err, short+" failed")
			}
			c.notifySuccess(ctx, done)
			return nil
		},
	}
}

func branchFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Branch name")
	cmd.Flags().String("address", "", "Street address")
	cmd.Flags().String("phone", "", "Phone number")
}

func (c *CLI) renderBranch(b *entities.Branch) error {
	return c.render(b, func(w io.Writer) {
		row(w, "ID", "NAME", "ADDRESS", "ACTIVE")
		row(w, b.ID, b.Name, orDash(b.Address), yesNo(b.IsActive))
	})
}
