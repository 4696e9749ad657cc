package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (c *CLI) patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Browse and register patients",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Search patients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			filter := entities.PatientFilter{}
			filter.Search, _ = cmd.Flags().GetString("search")
			filter.BranchID, _ = cmd.Flags().GetInt64("branch")
			if cmd.Flags().Changed("skip") {
				skip, _ := cmd.Flags().GetInt("skip")
				filter.Skip = &skip
			}
			if cmd.Flags().Changed("limit") {
				limit, _ := cmd.Flags().GetInt("limit")
				filter.Limit = &limit
			}

			page, err := c.app.Queries.Patients.List(ctx, filter)
			if err != nil {
				return c.report(ctx, err, "Failed to load patients")
			}
			return c.render(page, func(w io.Writer) {
				row(w, "ID", "NAME", "PHONE", "EMAIL", "GENDER", "BORN")
				for _, p := range page.Patients {
					row(w, p.ID, p.Name, orDash(p.Phone), orDash(p.Email), orDash(string(p.Gender)), orDash(p.DateOfBirth))
				}
				fmt.Fprintf(w, "\n%d of %d\n", len(page.Patients), page.Total)
			})
		},
	}
	list.Flags().String("search", "", "Name, phone or email")
	list.Flags().Int64("branch", 0, "Branch ID")
	list.Flags().Int("skip", 0, "Rows to skip")
	list.Flags().Int("limit", 50, "Rows to return")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a patient and their appointments",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			p, err := c.app.Queries.Patients.Get(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load patient")
			}
			return c.render(p, func(w io.Writer) {
				row(w, "ID", p.ID)
				row(w, "Name", p.Name)
				row(w, "Phone", orDash(p.Phone))
				row(w, "Email", orDash(p.Email))
				row(w, "Gender", orDash(string(p.Gender)))
				row(w, "Born", orDash(p.DateOfBirth))
				for _, a := range p.Appointments {
					row(w, "Appointment", fmt.Sprintf("#%d %s %s %s", a.ID, fmtTime(a.ScheduledAt), a.Type, a.Status))
				}
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Register a patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			draft := forms.PatientDraft{}
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Phone, _ = cmd.Flags().GetString("phone")
			draft.Email, _ = cmd.Flags().GetString("email")
			draft.Gender, _ = cmd.Flags().GetString("gender")
			draft.DateOfBirth, _ = cmd.Flags().GetString("dob")
			req, err := draft.Request()
			if err != nil {
				return err
			}
			p, err := c.app.Queries.Patients.Create(ctx, req)
			if err != nil {
				return c.report(ctx, err, "Failed to create patient")
			}
			c.notifySuccess(ctx, "Patient created successfully")
			return c.render(p, func(w io.Writer) {
				row(w, "ID", "NAME", "PHONE")
				row(w, p.ID, p.Name, orDash(p.Phone))
			})
		},
	}
	patientFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a patient; only given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			draft := forms.PatientUpdateDraft{
				Name:        optionalString(cmd, "name"),
				Phone:       optionalString(cmd, "phone"),
				Email:       optionalString(cmd, "email"),
				Gender:      optionalString(cmd, "gender"),
				DateOfBirth: optionalString(cmd, "dob"),
			}
			req, err := draft.Request()
			if err != nil {
				return err
			}
			p, err := c.app.Queries.Patients.Update(ctx, id, req)
			if err != nil {
				return c.report(ctx, err, "Failed to update patient")
			}
			c.notifySuccess(ctx, "Patient updated successfully")
			return c.render(p, func(w io.Writer) {
				row(w, "ID", "NAME", "PHONE", "EMAIL")
				row(w, p.ID, p.Name, orDash(p.Phone), orDash(p.Email))
			})
		}),
	}
	patientFlags(update)

	timeline := &cobra.Command{
		Use:   "timeline <id>",
		Short: "Show a patient's clinical history",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			tl, err := c.app.Queries.Patients.Timeline(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load timeline")
			}
			return c.render(tl, func(w io.Writer) {
				row(w, "TYPE", "WHEN", "DETAIL")
				for _, ev := range tl.Events {
					when, detail := describeEvent(ev)
					row(w, ev.Type, when, detail)
				}
			})
		}),
	}

	cmd.AddCommand(list, show, create, update, timeline)
	return cmd
}

func patientFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("gender", "", "male, female or other")
	cmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
}

func describeEvent(ev entities.TimelineEvent) (string, string) {
	switch {
	case ev.Appointment != nil:
		return fmtTime(ev.Appointment.ScheduledAt), fmt.Sprintf("#%d %s %s", ev.Appointment.ID, ev.Appointment.Type, ev.Appointment.Status)
	case ev.Consultation != nil:
		return fmtTime(ev.Consultation.CreatedAt), orDash(ev.Consultation.Diagnosis)
	case ev.Prescription != nil:
		return fmtTime(ev.Prescription.CreatedAt), fmt.Sprintf("%s %s", ev.Prescription.Medication, ev.Prescription.Dosage)
	case ev.MigratedRecord != nil:
		return fmtTime(ev.MigratedRecord.UploadedAt), fmt.Sprintf("%s (%s)", ev.MigratedRecord.FileName, ev.MigratedRecord.Source)
	}
	return "-", "-"
}

func (c *CLI) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Migrated paper records",
	}

	list := &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List a patient's migrated records",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, patientID int64) error {
			ctx := cmd.Context()
			if err := c.requireSignedIn(ctx); err != nil {
				return err
			}
			records, err := c.app.Queries.Patients.Records(ctx, patientID)
			if err != nil {
				return c.report(ctx, err, "Failed to load records")
			}
			return c.render(records, func(w io.Writer) {
				row(w, "ID", "FILE", "SOURCE", "UPLOADED", "URL")
				for _, r := range records {
					row(w, r.ID, r.FileName, r.Source, fmtTime(r.UploadedAt), r.FileURL)
				}
			})
		}),
	}

	upload := &cobra.Command{
		Use:   "upload <patient-id> <file>",
		Short: "Upload a scanned or photographed record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			patientID, err := parseID(args[0])
			if err != nil {
				return err
			}
			content, err := forms.ReadRecordFile(args[1], c.app.Config.Upload)
			if err != nil {
				return err
			}

			draft := forms.RecordUploadDraft{PatientID: patientID, FileName: filepath.Base(args[1]), Content: content}
			draft.Source, _ = cmd.Flags().GetString("source")
			draft.Notes, _ = cmd.Flags().GetString("notes")
			payload, err := draft.Upload(c.app.Config.Upload)
			if err != nil {
				return err
			}

			rec, err := c.app.Queries.Patients.Upload(ctx, payload)
			if err != nil {
				return c.report(ctx, err, "Failed to upload record")
			}
			c.notifySuccess(ctx, "Record uploaded successfully")
			return c.render(rec, func(w io.Writer) {
				row(w, "ID", "FILE", "SOURCE", "URL")
				row(w, rec.ID, rec.FileName, rec.Source, rec.FileURL)
			})
		},
	}
	upload.Flags().String("source", string(entities.RecordSourceScan), "scan or photo")
	upload.Flags().String("notes", "", "Notes")

	uploadURL := &cobra.Command{
		Use:   "upload-url <patient-id> <file>",
		Short: "Request a pre-signed location to upload a record to directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.require(ctx, entities.RoleName.CanManageAppointments); err != nil {
				return err
			}
			patientID, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := forms.UploadURLRequest(patientID, args[1], c.app.Config.Upload)
			if err != nil {
				return err
			}
			target, err := c.app.Queries.Patients.UploadURL(ctx, req)
			if err != nil {
				return c.report(ctx, err, "Failed to prepare upload")
			}
			return c.render(target, func(w io.Writer) {
				row(w, "Upload to", target.UploadURL)
				row(w, "File URL", target.FileURL)
				row(w, "Content type", req.ContentType)
				row(w, "Expires", fmtTimePtr(target.ExpiresAt))
			})
		},
	}

	cmd.AddCommand(list, upload, uploadURL)
	return cmd
}
