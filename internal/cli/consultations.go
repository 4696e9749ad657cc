package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func isClinician(r entities.RoleName) bool {
	return r == entities.RoleAdmin || r == entities.RoleDoctor
}

func (c *CLI) consultationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultations",
		Short: "Consultation notes and prescriptions",
	}

	show := &cobra.Command{
		Use:   "show <appointment-id>",
		Short: "Show the consultation recorded for an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, appointmentID int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			cons, err := c.app.Queries.Clinical.ConsultationByAppointment(ctx, appointmentID)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			if cons == nil {
				return c.render(nil, func(w io.Writer) { row(w, "No consultation recorded") })
			}
			prescriptions, err := c.app.Queries.Clinical.Prescriptions(ctx, cons.ID)
			if err != nil {
				return c.report(ctx, err, "Failed to load prescriptions")
			}
			out := struct {
				*entities.Consultation
				Prescriptions []*entities.Prescription `json:"prescriptions"`
			}{cons, prescriptions}
			return c.render(out, func(w io.Writer) {
				row(w, "Consultation", cons.ID)
				row(w, "Recorded", fmtTime(cons.CreatedAt))
				row(w, "Complaint", orDash(cons.ChiefComplaint))
				row(w, "Diagnosis", orDash(cons.Diagnosis))
				row(w, "Notes", orDash(cons.Notes))
				for _, p := range prescriptions {
					row(w, "Prescription", p.Medication+" "+p.Dosage+" "+p.Duration)
				}
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create <appointment-id>",
		Short: "Record a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, appointmentID int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, isClinician); err != nil {
				return err
			}
			appt, err := c.app.Queries.Appointments.Get(ctx, appointmentID)
			if err != nil {
				return c.report(ctx, err, "Failed to load appointment")
			}
			req := &entities.CreateConsultationRequest{AppointmentID: appointmentID}
			req.ChiefComplaint, _ = cmd.Flags().GetString("complaint")
			req.Diagnosis, _ = cmd.Flags().GetString("diagnosis")
			req.Notes, _ = cmd.Flags().GetString("notes")

			cons, err := c.app.Queries.Clinical.CreateConsultation(ctx, req, appt.PatientID)
			if err != nil {
				return c.report(ctx, err, "Failed to record consultation")
			}
			c.notifySuccess(ctx, "Consultation recorded successfully")
			return c.render(cons, func(w io.Writer) {
				row(w, "ID", "APPOINTMENT", "DIAGNOSIS")
				row(w, cons.ID, cons.AppointmentID, orDash(cons.Diagnosis))
			})
		}),
	}
	create.Flags().String("complaint", "", "Chief complaint")
	create.Flags().String("diagnosis", "", "Diagnosis")
	create.Flags().String("notes", "", "Notes")

	prescribe := &cobra.Command{
		Use:   "prescribe <consultation-id>",
		Short: "Add a prescription to a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, consultationID int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, isClinician); err != nil {
				return err
			}
			cons, err := c.app.Queries.Clinical.Consultation(ctx, consultationID)
			if err != nil {
				return c.report(ctx, err, "Failed to load consultation")
			}
			appt, err := c.app.Queries.Appointments.Get(ctx, cons.AppointmentID)
			if err != nil {
				return c.report(ctx, err, "Failed to load appointment")
			}

			draft := forms.PrescriptionDraft{ConsultationID: consultationID}
			draft.Medication, _ = cmd.Flags().GetString("medication")
			draft.Dosage, _ = cmd.Flags().GetString("dosage")
			draft.Duration, _ = cmd.Flags().GetString("duration")
			draft.Instructions, _ = cmd.Flags().GetString("instructions")
			req, err := draft.Request()
			if err != nil {
				return err
			}
			p, err := c.app.Queries.Clinical.CreatePrescription(ctx, req, appt.PatientID)
			if err != nil {
				return c.report(ctx, err, "Failed to add prescription")
			}
			c.notifySuccess(ctx, "Prescription added successfully")
			return c.render(p, func(w io.Writer) {
				row(w, "ID", "MEDICATION", "DOSAGE", "DURATION")
				row(w, p.ID, p.Medication, orDash(p.Dosage), orDash(p.Duration))
			})
		}),
	}
	prescribe.Flags().String("medication", "", "Medication")
	prescribe.Flags().String("dosage", "", "Dosage")
	prescribe.Flags().String("duration", "", "Duration")
	prescribe.Flags().String("instructions", "", "Instructions")

	cmd.AddCommand(show, create, prescribe)
	return cmd
}
