package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (c *CLI) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "Browse and manage appointments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			filter := entities.AppointmentFilter{}
			filter.Date, _ = cmd.Flags().GetString("date")
			filter.DoctorID, _ = cmd.Flags().GetInt64("doctor")
			filter.PatientID, _ = cmd.Flags().GetInt64("patient")
			filter.BranchID, _ = cmd.Flags().GetInt64("branch")
			status, _ := cmd.Flags().GetString("status")
			filter.Status = entities.AppointmentStatus(status)

			appts, err := c.app.Queries.Appointments.List(ctx, filter)
			if err != nil {
				return c.report(ctx, err, "Failed to load appointments")
			}
			c.app.Loaders().ResolveNames(ctx, appts)
			return c.render(appts, func(w io.Writer) {
				row(w, "ID", "WHEN", "TYPE", "STATUS", "PATIENT", "DOCTOR")
				for _, a := range appts {
					row(w, a.ID, fmtTime(a.ScheduledAt), a.Type, a.Status, patientName(a), doctorName(a))
				}
			})
		},
	}
	list.Flags().String("date", "", "Only this day (YYYY-MM-DD)")
	list.Flags().Int64("doctor", 0, "Doctor ID")
	list.Flags().Int64("patient", 0, "Patient ID")
	list.Flags().Int64("branch", 0, "Branch ID")
	list.Flags().String("status", "", "scheduled, in_call, completed or cancelled")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			a, err := c.app.Queries.Appointments.Get(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load appointment")
			}
			c.app.Loaders().ResolveNames(ctx, []*entities.Appointment{a})
			return c.render(a, func(w io.Writer) {
				row(w, "ID", a.ID)
				row(w, "When", fmtTime(a.ScheduledAt))
				row(w, "Type", a.Type)
				row(w, "Status", a.Status)
				row(w, "Patient", patientName(a))
				row(w, "Doctor", doctorName(a))
				row(w, "Notes", orDash(a.Notes))
				row(w, "Can reschedule", yesNo(a.CanReschedule()))
				row(w, "Can cancel", yesNo(a.CanCancel()))
				if a.TeleSession != nil {
					row(w, "Session", a.TeleSession.Status)
				}
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Book an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			draft := forms.AppointmentDraft{}
			draft.PatientID, _ = cmd.Flags().GetInt64("patient")
			draft.DoctorID, _ = cmd.Flags().GetInt64("doctor")
			draft.BranchID, _ = cmd.Flags().GetInt64("branch")
			draft.Type, _ = cmd.Flags().GetString("type")
			draft.Notes, _ = cmd.Flags().GetString("notes")
			if at, _ := cmd.Flags().GetString("at"); at != "" {
				when, err := parseWhen(at)
				if err != nil {
					return err
				}
				draft.ScheduledAt = when
			}

			a, err := c.app.Appointments.Create(ctx, draft)
			if err != nil {
				return err
			}
			return c.render(a, func(w io.Writer) {
				row(w, "ID", "WHEN", "TYPE", "STATUS")
				row(w, a.ID, fmtTime(a.ScheduledAt), a.Type, a.Status)
			})
		},
	}
	create.Flags().Int64("patient", 0, "Patient ID")
	create.Flags().Int64("doctor", 0, "Doctor ID")
	create.Flags().Int64("branch", 0, "Branch ID")
	create.Flags().String("type", string(entities.AppointmentTypeInPerson), "in_person or tele")
	create.Flags().String("at", "", "Start time")
	create.Flags().String("notes", "", "Notes")

	reschedule := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move a scheduled appointment",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			draft := forms.RescheduleDraft{}
			if at, _ := cmd.Flags().GetString("at"); at != "" {
				when, err := parseWhen(at)
				if err != nil {
					return err
				}
				draft.ScheduledAt = when
			}
			a, err := c.app.Appointments.Reschedule(ctx, id, draft)
			if err != nil {
				return err
			}
			return c.render(a, func(w io.Writer) {
				row(w, "ID", "WHEN", "STATUS")
				row(w, a.ID, fmtTime(a.ScheduledAt), a.Status)
			})
		}),
	}
	reschedule.Flags().String("at", "", "New start time")

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled appointment",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			a, err := c.app.Appointments.Cancel(ctx, id)
			if err != nil {
				return err
			}
			return c.render(a, func(w io.Writer) {
				row(w, "ID", "STATUS")
				row(w, a.ID, a.Status)
			})
		}),
	}

	cmd.AddCommand(list, show, create, reschedule, cancel)
	return cmd
}

func patientName(a *entities.Appointment) string {
	if a.Patient != nil && a.Patient.Name != "" {
		return a.Patient.Name
	}
	return "-"
}

func doctorName(a *entities.Appointment) string {
	if a.Doctor != nil && a.Doctor.Name != "" {
		return a.Doctor.Name
	}
	return "-"
}
