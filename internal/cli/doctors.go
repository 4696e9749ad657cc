package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (c *CLI) doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Manage doctors (admin)",
		PersistentPreRunE: c.gated(entities.RoleName.CanManageBranches),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List doctors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := entities.DoctorFilter{}
			filter.BranchID, _ = cmd.Flags().GetInt64("branch")
			filter.Search, _ = cmd.Flags().GetString("search")
			filter.Specialization, _ = cmd.Flags().GetString("specialization")
			if cmd.Flags().Changed("active") {
				active, _ := cmd.Flags().GetBool("active")
				filter.IsActive = &active
			}
			doctors, err := c.app.Queries.Doctors.List(ctx, filter)
			if err != nil {
				return c.report(ctx, err, "Failed to load doctors")
			}
			return c.render(doctors, func(w io.Writer) {
				row(w, "ID", "NAME", "SPECIALIZATION", "EMAIL", "ACTIVE", "BRANCHES")
				for _, d := range doctors {
					row(w, d.ID, d.Name, orDash(d.Specialization), orDash(d.Email), yesNo(d.IsActive), branchNames(d))
				}
			})
		},
	}
	list.Flags().Int64("branch", 0, "Branch ID")
	list.Flags().String("search", "", "Name or email")
	list.Flags().String("specialization", "", "Specialization")
	list.Flags().Bool("active", false, "Filter by status (--active or --active=false)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a doctor with availability",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			d, err := c.app.Queries.Doctors.Get(ctx, id)
			if err != nil {
				return c.report(ctx, err, "Failed to load doctor")
			}
			if d.Availability == nil {
				if av, err := c.app.Queries.Doctors.Availability(ctx, id); err == nil {
					d.Availability = av
				}
			}
			return c.render(d, func(w io.Writer) {
				row(w, "ID", d.ID)
				row(w, "Name", d.Name)
				row(w, "Email", orDash(d.Email))
				row(w, "Phone", orDash(d.Phone))
				row(w, "Specialization", orDash(d.Specialization))
				row(w, "Registration", orDash(d.RegistrationNumber))
				row(w, "Active", yesNo(d.IsActive))
				row(w, "Branches", branchNames(&d.Doctor))
				if d.Availability != nil {
					for _, day := range d.Availability.WorkingDays {
						if day.IsWorking {
							row(w, string(day.Day), day.StartTime+"-"+day.EndTime)
						}
					}
				}
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a doctor and their login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft := forms.DoctorDraft{}
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Email, _ = cmd.Flags().GetString("email")
			draft.Phone, _ = cmd.Flags().GetString("phone")
			draft.Password, _ = cmd.Flags().GetString("password")
			draft.Specialization, _ = cmd.Flags().GetString("specialization")
			draft.RegistrationNumber, _ = cmd.Flags().GetString("registration")
			raw, _ := cmd.Flags().GetStringSlice("branch")
			ids, err := parseIDs(raw)
			if err != nil {
				return err
			}
			draft.BranchIDs = ids

			req, err := draft.Request()
			if err != nil {
				return err
			}
			d, err := c.app.Queries.Doctors.Create(ctx, req)
			if err != nil {
				return c.report(ctx, err, "Error creating doctor")
			}
			c.notifySuccess(ctx, "Doctor created successfully")
			return c.render(d, func(w io.Writer) {
				row(w, "ID", "NAME", "EMAIL")
				row(w, d.ID, d.Name, orDash(d.Email))
			})
		},
	}
	create.Flags().String("name", "", "Full name")
	create.Flags().String("email", "", "Login email")
	create.Flags().String("phone", "", "Phone number")
	create.Flags().String("password", "", "Initial password")
	create.Flags().String("specialization", "", "Specialization")
	create.Flags().String("registration", "", "Registration number")
	create.Flags().StringSlice("branch", nil, "Branch IDs")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a doctor's profile",
		Args:  cobra.ExactArgs(1),
		RunE: idArg(func(cmd *cobra.Command, id int64) error {
			ctx := cmd.Context()
			req := &entities.UpdateDoctorRequest{
				Name:               optionalString(cmd, "name"),
				Phone:              optionalString(cmd, "phone"),
				Specialization:     optionalString(cmd, "specialization"),
				RegistrationNumber: optionalString(cmd, "registration"),
			}
			d, err := c.app.Queries.Doctors.Update(ctx, id, req)
			if err != nil {
				return c.report(ctx, err, "Failed to update doctor")
			}
			c.notifySuccess(ctx, "Doctor updated successfully")
			return c.render(d, func(w io.Writer) {
				row(w, "ID", "NAME", "SPECIALIZATION")
				row(w, d.ID, d.Name, orDash(d.Specialization))
			})
		}),
	}
	update.Flags().String("name", "", "Full name")
	update.Flags().String("phone", "", "Phone number")
	update.Flags().String("specialization", "", "Specialization")
	update.Flags().String("registration", "", "Registration number")

	setStatus := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: idArg(func(cmd *cobra.Command, id int64) error {
				ctx := cmd.Context()
				d, err := c.app.Queries.Doctors.SetStatus(ctx, id, active)
				if err != nil {
					return c.report(ctx, err, "Failed to update doctor status")
				}
				c.notifySuccess(ctx, fmt.Sprintf("Doctor %sd successfully", use))
				return c.render(d, func(w io.Writer) {
					row(w, "ID", "NAME", "ACTIVE")
					row(w, d.ID, d.Name, yesNo(d.IsActive))
				})
			}),
		}
	}

	assign := &cobra.Command{
		Use:   "assign-branches <id> <branch-id>...",
		Short: "Replace the branches a doctor works at",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			branchIDs, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			d, err := c.app.Queries.Doctors.SetBranches(ctx, id, branchIDs)
			if err != nil {
				return c.report(ctx, err, "Failed to update branches")
			}
			c.notifySuccess(ctx, "Branches updated successfully")
			return c.render(d, func(w io.Writer) {
				row(w, "ID", "NAME", "BRANCHES")
				row(w, d.ID, d.Name, branchNames(d))
			})
		},
	}

	cmd.AddCommand(list, show, create, update,
		setStatus("activate", "Activate a doctor", true),
		setStatus("deactivate", "Deactivate a doctor", false),
		assign,
	)
	return cmd
}

func branchNames(d *entities.Doctor) string {
	if len(d.Branches) == 0 {
		return orDash(d.BranchName)
	}
	names := make([]string, 0, len(d.Branches))
	for _, b := range d.Branches {
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}
