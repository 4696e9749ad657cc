package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/query"
)

func (c *CLI) auditLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "audit-logs",
		Short:             "Review the audit trail (admin)",
		PersistentPreRunE: c.gated(entities.RoleName.CanViewAuditLogs),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := entities.AuditLogFilter{}
			filter.StartDate, _ = cmd.Flags().GetString("from")
			filter.EndDate, _ = cmd.Flags().GetString("to")
			filter.UserID, _ = cmd.Flags().GetInt64("user")
			filter.Action, _ = cmd.Flags().GetString("action")
			filter.EntityType, _ = cmd.Flags().GetString("entity-type")
			skip, _ := cmd.Flags().GetInt("skip")
			limit, _ := cmd.Flags().GetInt("limit")
			filter.Skip, filter.Limit = &skip, &limit

			page, err := c.app.Queries.AuditLogs.List(ctx, filter)
			if err != nil {
				return c.report(ctx, err, "Failed to load audit logs")
			}
			return c.render(page, func(w io.Writer) {
				row(w, "ID", "WHEN", "USER", "ROLE", "ACTION", "ENTITY")
				for _, l := range page.Items {
					row(w, l.ID, fmtTime(l.Timestamp), orDash(l.UserName), orDash(l.UserRole), l.Action, entityRef(l))
				}
				fmt.Fprintf(w, "\n%d of %d\n", len(page.Items), page.Total)
			})
		},
	}
	list.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	list.Flags().String("to", "", "End date (YYYY-MM-DD)")
	list.Flags().Int64("user", 0, "User ID")
	list.Flags().String("action", "", "Action (see 'audit-logs actions')")
	list.Flags().String("entity-type", "", "Entity type (see 'audit-logs entity-types')")
	list.Flags().Int("skip", 0, "Rows to skip")
	list.Flags().Int("limit", 50, "Rows to return")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one audit entry",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			l, err := c.app.Queries.AuditLogs.Get(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load audit log")
			}
			return c.render(l, func(w io.Writer) {
				row(w, "ID", l.ID)
				row(w, "When", fmtTime(l.Timestamp))
				row(w, "User", orDash(l.UserName))
				row(w, "Role", orDash(l.UserRole))
				row(w, "Action", l.Action)
				row(w, "Entity", entityRef(*l))
			})
		}),
	}

	distinct := func(use, short string, get func(q *query.AuditLogQueries, ctx context.Context) ([]string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				values, err := get(c.app.Queries.AuditLogs, ctx)
				if err != nil {
					return c.report(ctx, err, "Failed to load filter values")
				}
				return c.render(values, func(w io.Writer) {
					for _, v := range values {
						row(w, v)
					}
				})
			},
		}
	}

	cmd.AddCommand(list, show,
		distinct("actions", "List recorded actions", (*query.AuditLogQueries).DistinctActions),
		distinct("entity-types", "List recorded entity types", (*query.AuditLogQueries).DistinctEntityTypes),
	)
	return cmd
}

func entityRef(l entities.AuditLog) string {
	if l.EntityID == nil {
		return l.EntityType
	}
	return fmt.Sprintf("%s #%d", l.EntityType, *l.EntityID)
}
