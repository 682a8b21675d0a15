package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
	"github.com/sandeepkv93/gym-crm-cli/internal/rbac"
	"github.com/sandeepkv93/gym-crm-cli/internal/tui"
)

func attendanceRows(visits []domain.Attendance) [][]string {
	rows := make([][]string, 0, len(visits))
	for _, a := range visits {
		out := a.CheckOut
		if out == "" {
			out = warnStyle.Render("open")
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10), strconv.FormatInt(a.MemberID, 10),
			a.CheckIn, out, string(a.Method),
		})
	}
	return rows
}

func newAttendanceCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "attendance", Short: "Track member visits"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewAttendance)
			if err != nil {
				return err
			}
			visits, err := a.API.Attendance.List(cmd.Context())
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "MEMBER", "CHECK-IN", "CHECK-OUT", "METHOD"}, attendanceRows(visits))
			return nil
		},
	})

	var method, notes string
	checkin := &cobra.Command{
		Use:   "checkin <member-id>",
		Short: "Check a member in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewAttendance)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			visit, err := a.API.Attendance.CheckIn(cmd.Context(), domain.CheckInRequest{
				MemberID: id,
				Method:   domain.AttendanceMethod(strings.ToUpper(method)),
				Notes:    notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked in member %d at %s\n", visit.MemberID, visit.CheckIn)
			return nil
		},
	}
	checkin.Flags().StringVar(&method, "method", "MANUAL", "QR, BIOMETRIC or MANUAL")
	checkin.Flags().StringVar(&notes, "notes", "", "visit notes")
	cmd.AddCommand(checkin)

	cmd.AddCommand(&cobra.Command{
		Use:   "checkout <member-id>",
		Short: "Check a member out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewAttendance)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			visit, err := a.API.Attendance.CheckOut(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked out member %d at %s\n", visit.MemberID, visit.CheckOut)
			return nil
		},
	})

	var start, end string
	byRange := &cobra.Command{
		Use:   "range",
		Short: "List visits in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewAttendance)
			if err != nil {
				return err
			}
			visits, err := a.API.Attendance.ByDateRange(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "MEMBER", "CHECK-IN", "CHECK-OUT", "METHOD"}, attendanceRows(visits))
			return nil
		},
	}
	byRange.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	byRange.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	_ = byRange.MarkFlagRequired("start")
	_ = byRange.MarkFlagRequired("end")
	cmd.AddCommand(byRange)

	return cmd
}

func newPaymentsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "payments", Short: "Record and review payments"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewPayments)
			if err != nil {
				return err
			}
			payments, err := a.API.Payments.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(payments))
			for _, p := range payments {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10), p.MemberName, money(p.Amount),
					string(p.PaymentMethod), string(p.Status), p.PaymentDate,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "MEMBER", "AMOUNT", "METHOD", "STATUS", "DATE"}, rows)
			return nil
		},
	})

	var form domain.PaymentForm
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.RecordPayment)
			if err != nil {
				return err
			}
			form.PaymentMethod = domain.PaymentMethod(strings.ToUpper(string(form.PaymentMethod)))
			p, err := a.API.Payments.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment %d recorded: %s (%s)\n", p.ID, money(p.Amount), p.Status)
			return nil
		},
	}
	record.Flags().Int64Var(&form.UserID, "user", 0, "paying user id")
	record.Flags().Float64Var(&form.Amount, "amount", 0, "amount")
	record.Flags().StringVar((*string)(&form.PaymentMethod), "method", "CASH", "CASH, UPI, CARD, ONLINE or BANK_TRANSFER")
	record.Flags().StringVar(&form.PaymentDate, "date", "", "payment date (YYYY-MM-DD)")
	record.Flags().StringVar(&form.Notes, "notes", "", "notes")
	_ = record.MarkFlagRequired("user")
	_ = record.MarkFlagRequired("amount")
	cmd.AddCommand(record)

	cmd.AddCommand(&cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a payment completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.RecordPayment)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			p, err := a.API.Payments.UpdateStatus(cmd.Context(), id, domain.PaymentCompleted)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment %d is now %s\n", p.ID, p.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Revenue summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewFinancials)
			if err != nil {
				return err
			}
			sum, err := a.API.Payments.Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "This month:   %s\n", money(sum.CurrentMonthAmount))
			fmt.Fprintf(out, "Today:        %s\n", money(sum.TodayRevenue))
			fmt.Fprintf(out, "Pending:      %s\n", money(sum.PendingAmount))
			fmt.Fprintf(out, "Overdue:      %s\n", money(sum.TotalOverdueAmount))
			return nil
		},
	})

	return cmd
}

func newProgressCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "progress", Short: "Body measurement tracking"}

	cmd.AddCommand(&cobra.Command{
		Use:   "member <id>",
		Short: "Show a member's progress history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewProgress)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			entries, err := a.API.Progress.ByMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, p := range entries {
				rows = append(rows, []string{
					p.MeasurementDate,
					fmt.Sprintf("%.1fkg", p.Weight),
					fmt.Sprintf("%.1f%%", p.BodyFat),
					fmt.Sprintf("%.1fkg", p.MuscleMass),
					p.Notes,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"DATE", "WEIGHT", "BODY FAT", "MUSCLE", "NOTES"}, rows)
			return nil
		},
	})

	var entry domain.ProgressEntry
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a measurement",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.UpdateProgress)
			if err != nil {
				return err
			}
			p, err := a.API.Progress.Record(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded entry %d for member %d\n", p.ID, p.MemberID)
			return nil
		},
	}
	record.Flags().Int64Var(&entry.MemberID, "member", 0, "member id")
	record.Flags().StringVar(&entry.MeasurementDate, "date", "", "measurement date (YYYY-MM-DD)")
	record.Flags().Float64Var(&entry.Weight, "weight", 0, "weight in kg")
	record.Flags().Float64Var(&entry.Height, "height", 0, "height in cm")
	record.Flags().Float64Var(&entry.BodyFat, "body-fat", 0, "body fat percent")
	record.Flags().Float64Var(&entry.MuscleMass, "muscle", 0, "muscle mass in kg")
	record.Flags().StringVar(&entry.Notes, "notes", "", "notes")
	_ = record.MarkFlagRequired("member")
	cmd.AddCommand(record)

	return cmd
}

func newGymsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "gyms", Short: "Manage gym locations"}

	list := func(use, short string, activeOnly bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, _, err := e.authorized(cmd.Context(), rbac.ViewGyms)
				if err != nil {
					return err
				}
				var gyms []domain.Gym
				if activeOnly {
					gyms, err = a.API.Gyms.Active(cmd.Context())
				} else {
					gyms, err = a.API.Gyms.List(cmd.Context())
				}
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(gyms))
				for _, g := range gyms {
					rows = append(rows, []string{
						strconv.FormatInt(g.ID, 10), g.GymCode, g.Name, g.City,
						g.OpeningTime + "-" + g.ClosingTime, boolMark(g.IsActive),
					})
				}
				renderTable(cmd.OutOrStdout(), []string{"ID", "CODE", "NAME", "CITY", "HOURS", "ACTIVE"}, rows)
				return nil
			},
		}
	}
	cmd.AddCommand(list("list", "List all gyms", false))
	cmd.AddCommand(list("active", "List active gyms", true))

	var form domain.Gym
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a gym location",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ManageGyms)
			if err != nil {
				return err
			}
			g, err := a.API.Gyms.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created gym %s: %s\n", g.GymCode, g.Name)
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "gym name")
	create.Flags().StringVar(&form.City, "city", "", "city")
	create.Flags().StringVar(&form.State, "state", "", "state")
	create.Flags().StringVar(&form.Address, "address", "", "address")
	create.Flags().StringVar(&form.OpeningTime, "opens", "06:00", "opening time")
	create.Flags().StringVar(&form.ClosingTime, "closes", "22:00", "closing time")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	return cmd
}

func newDashboardCommand(e *env) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Operational summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, sess, err := e.authorized(cmd.Context(), rbac.ViewDashboard)
			if err != nil {
				return err
			}
			if watch {
				return tui.RunDashboard(cmd.Context(), a.API, sess)
			}
			sum, err := a.API.Dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Members:            %d total, %d active\n", sum.TotalMembers, sum.ActiveMembers)
			fmt.Fprintf(out, "Revenue this month: %s\n", money(sum.TotalPaymentsCurrentMonth))
			fmt.Fprintf(out, "Expiring soon:      %d\n", sum.ExpiringMembersCount)
			fmt.Fprintf(out, "Pending payments:   %d\n", sum.PendingPayments)
			fmt.Fprintf(out, "Visits today:       %d\n", sum.TodayAttendance)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "live dashboard (interactive)")
	return cmd
}
