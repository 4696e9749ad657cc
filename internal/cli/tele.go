package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (c *CLI) teleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tele",
		Short: "Run tele-consultation sessions",
	}

	start := &cobra.Command{
		Use:   "start <appointment-id>",
		Short: "Start the session as host and open it",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanStartSession); err != nil {
				return err
			}
			ctrl, err := c.app.Tele.Controller(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			if _, err := ctrl.Start(ctx); err != nil {
				return err
			}
			return c.renderSession(ctrl.Snapshot())
		}),
	}

	join := &cobra.Command{
		Use:   "join <appointment-id>",
		Short: "Open the session as a participant",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			ctrl, err := c.app.Tele.Controller(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			if _, err := ctrl.Join(ctx); err != nil {
				return err
			}
			return c.renderSession(ctrl.Snapshot())
		}),
	}

	status := &cobra.Command{
		Use:   "status <appointment-id>",
		Short: "Reconcile the session with the video provider",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanReconcileSession); err != nil {
				return err
			}
			ctrl, err := c.app.Tele.Controller(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			if _, err := ctrl.CheckStatus(ctx); err != nil {
				return err
			}
			return c.renderSession(ctrl.Snapshot())
		}),
	}

	end := &cobra.Command{
		Use:   "end <appointment-id>",
		Short: "End the session",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanReconcileSession); err != nil {
				return err
			}
			ctrl, err := c.app.Tele.Controller(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			if _, err := ctrl.End(ctx); err != nil {
				return err
			}
			return c.renderSession(ctrl.Snapshot())
		}),
	}

	watch := &cobra.Command{
		Use:   "watch <appointment-id>",
		Short: "Poll the session until it ends",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanReconcileSession); err != nil {
				return err
			}
			ctrl, err := c.app.Tele.Controller(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				interval = c.app.Config.Tele.PollInterval
			}
			fmt.Fprintf(c.out, "Watching appointment %d (%s), checking every %s\n", id, ctrl.State(), interval)
			if err := services.NewStatusPoller(ctrl, interval, c.app.Logger).Run(ctx); err != nil {
				return err
			}
			return c.renderSession(ctrl.Snapshot())
		}),
	}
	watch.Flags().Duration("interval", 0, "Polling interval (defaults to TELE_STATUS_POLL_INTERVAL)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tele-sessions (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.IsAdmin); err != nil {
				return err
			}
			filter := entities.TeleSessionFilter{}
			filter.DoctorID, _ = cmd.Flags().GetInt64("doctor")
			filter.BranchID, _ = cmd.Flags().GetInt64("branch")
			status, _ := cmd.Flags().GetString("status")
			filter.Status = entities.AppointmentStatus(status)

			sessions, err := c.app.Queries.TeleSessions.AdminList(ctx, filter)
			if err != nil {
				return c.report(ctx, err, "Failed to load tele-sessions")
			}
			return c.render(sessions, func(w io.Writer) {
				row(w, "ID", "APPOINTMENT", "SCHEDULED", "STATUS", "PROVIDER", "DOCTOR", "PATIENT")
				for _, s := range sessions {
					row(w, s.ID, s.AppointmentID, fmtTimePtr(s.AppointmentScheduledAt), s.Status, s.Provider, orDash(s.DoctorName), orDash(s.PatientName))
				}
			})
		},
	}
	list.Flags().Int64("doctor", 0, "Doctor ID")
	list.Flags().Int64("branch", 0, "Branch ID")
	list.Flags().String("status", "", "Appointment status")

	show := &cobra.Command{
		Use:   "show <appointment-id>",
		Short: "Show an appointment's session with doctor and patient (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.IsAdmin); err != nil {
				return err
			}
			ts, err := c.app.Queries.TeleSessions.AdminByAppointment(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load tele-session")
			}
			if ts == nil {
				fmt.Fprintf(c.out, "No session for appointment %d\n", id)
				return nil
			}
			return c.render(ts, func(w io.Writer) {
				row(w, "Session", ts.ID)
				row(w, "Appointment", ts.AppointmentID)
				row(w, "Scheduled", fmtTimePtr(ts.AppointmentScheduledAt))
				row(w, "Doctor", orDash(ts.DoctorName))
				row(w, "Patient", orDash(ts.PatientName))
				row(w, "Branch", orDash(ts.BranchName))
				row(w, "Provider", ts.Provider)
				row(w, "Meeting", orDash(ts.MeetingID))
				row(w, "Status", ts.Status)
				row(w, "Started", fmtTimePtr(ts.StartTime))
				row(w, "Ended", fmtTimePtr(ts.EndTime))
				if ts.DurationMinutes != nil {
					row(w, "Duration", fmt.Sprintf("%d min", *ts.DurationMinutes))
				}
			})
		}),
	}

	cmd.AddCommand(start, join, status, end, watch, list, show)
	return cmd
}

func (c *CLI) renderSession(snap services.TeleSnapshot) error {
	return c.render(snap, func(w io.Writer) {
		row(w, "State", snap.State)
		if snap.Appointment != nil {
			row(w, "Appointment", fmt.Sprintf("%d (%s)", snap.Appointment.ID, snap.Appointment.Status))
		}
		if s := snap.Session; s != nil {
			row(w, "Session", s.ID)
			row(w, "Provider", s.Provider)
			row(w, "Meeting", orDash(s.MeetingID))
			row(w, "Status", s.Status)
			row(w, "Started", fmtTimePtr(s.StartTime))
			row(w, "Ended", fmtTimePtr(s.EndTime))
			if d, ok := s.Duration(); ok {
				row(w, "Duration", d.Round(time.Second))
			}
		}
		row(w, "Last checked", fmtTime(snap.LastReconciled))
	})
}
