package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
	"github.com/sandeepkv93/gym-crm-cli/internal/rbac"
)

func argID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func newMembersCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "members", Short: "Manage gym members"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewAllMembers)
			if err != nil {
				return err
			}
			members, err := a.API.Members.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10), m.MemberCode, m.FullName(), m.Phone, string(m.Status), m.JoinDate,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "CODE", "NAME", "PHONE", "STATUS", "JOINED"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewMemberDetails)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			m, err := a.API.Members.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", m.MemberCode, m.FullName())
			fmt.Fprintf(out, "Status: %s  Joined: %s  Gym: %d\n", m.Status, m.JoinDate, m.GymID)
			fmt.Fprintf(out, "Phone: %s  Email: %s\n", m.Phone, m.Email)
			if m.FitnessGoals != "" {
				fmt.Fprintf(out, "Goals: %s\n", m.FitnessGoals)
			}
			return nil
		},
	})

	var form domain.Member
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a new member",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, sess, err := e.authorized(cmd.Context(), rbac.CreateMember)
			if err != nil {
				return err
			}
			if form.GymID == 0 && sess.GymID != nil {
				form.GymID = *sess.GymID
			}
			m, err := a.API.Members.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created member %s (%s)\n", m.MemberCode, m.FullName())
			return nil
		},
	}
	create.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	create.Flags().StringVar(&form.Email, "email", "", "email address")
	create.Flags().StringVar(&form.Gender, "gender", "", "gender")
	create.Flags().StringVar(&form.FitnessGoals, "goals", "", "fitness goals")
	create.Flags().Int64Var(&form.GymID, "gym", 0, "gym id (defaults to your gym scope)")
	_ = create.MarkFlagRequired("first-name")
	_ = create.MarkFlagRequired("phone")
	cmd.AddCommand(create)

	return cmd
}

func newTrainersCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "trainers", Short: "Manage trainers"}

	list := func(use, short string, fetch func(*cobra.Command) ([]domain.Trainer, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				trainers, err := fetch(cmd)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(trainers))
				for _, t := range trainers {
					rows = append(rows, []string{
						strconv.FormatInt(t.ID, 10),
						t.FirstName + " " + t.LastName,
						t.Specialization,
						strconv.Itoa(t.ExperienceYears) + "y",
						fmt.Sprintf("%.1f (%d)", t.Rating, t.TotalRatings),
						boolMark(t.IsActive),
					})
				}
				renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "SPECIALIZATION", "EXP", "RATING", "ACTIVE"}, rows)
				return nil
			},
		}
	}

	cmd.AddCommand(list("list", "List all trainers", func(cmd *cobra.Command) ([]domain.Trainer, error) {
		a, _, err := e.authorized(cmd.Context(), rbac.ViewTrainers)
		if err != nil {
			return nil, err
		}
		return a.API.Trainers.List(cmd.Context())
	}))
	cmd.AddCommand(list("active", "List active trainers", func(cmd *cobra.Command) ([]domain.Trainer, error) {
		a, _, err := e.authorized(cmd.Context(), rbac.ViewTrainers)
		if err != nil {
			return nil, err
		}
		return a.API.Trainers.Active(cmd.Context())
	}))
	cmd.AddCommand(list("top-rated", "List top rated trainers", func(cmd *cobra.Command) ([]domain.Trainer, error) {
		a, _, err := e.authorized(cmd.Context(), rbac.ViewTrainers)
		if err != nil {
			return nil, err
		}
		return a.API.Trainers.TopRated(cmd.Context())
	}))

	var form domain.Trainer
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a trainer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ManageTrainers)
			if err != nil {
				return err
			}
			t, err := a.API.Trainers.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trainer %d: %s %s\n", t.ID, t.FirstName, t.LastName)
			return nil
		},
	}
	create.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&form.Specialization, "specialization", "", "specialization")
	create.Flags().IntVar(&form.ExperienceYears, "experience", 0, "years of experience")
	create.Flags().Float64Var(&form.HourlyRate, "rate", 0, "hourly rate")
	_ = create.MarkFlagRequired("first-name")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a trainer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ManageTrainers)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			if err := a.API.Trainers.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trainer %d\n", id)
			return nil
		},
	})

	return cmd
}

func newPlansCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "plans", Short: "Manage membership plans"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List membership plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewMemberships)
			if err != nil {
				return err
			}
			plans, err := a.API.Plans.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10), p.Name, money(p.Price),
					strconv.Itoa(p.DurationMonths) + "mo", boolMark(p.IsActive),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "PRICE", "DURATION", "ACTIVE"}, rows)
			return nil
		},
	})

	var form domain.MembershipPlan
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a membership plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.CreateMembershipPlan)
			if err != nil {
				return err
			}
			p, err := a.API.Plans.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %d: %s\n", p.ID, p.Name)
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "plan name")
	create.Flags().StringVar(&form.Description, "description", "", "plan description")
	create.Flags().Float64Var(&form.Price, "price", 0, "plan price")
	create.Flags().IntVar(&form.DurationMonths, "months", 1, "duration in months")
	create.Flags().StringSliceVar(&form.Features, "feature", nil, "plan feature (repeatable)")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	return cmd
}

func newMembershipsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "memberships", Short: "Member membership assignments"}

	var form domain.AssignMembershipRequest
	assign := &cobra.Command{
		Use:   "assign",
		Short: "Assign a plan to a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.AssignMembership)
			if err != nil {
				return err
			}
			mm, err := a.API.Memberships.Assign(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Membership %d: member %d on plan %d until %s\n",
				mm.ID, mm.MemberID, mm.PlanID, mm.EndDate)
			return nil
		},
	}
	assign.Flags().Int64Var(&form.MemberID, "member", 0, "member id")
	assign.Flags().Int64Var(&form.PlanID, "plan", 0, "plan id")
	assign.Flags().StringVar(&form.StartDate, "start", "", "start date (YYYY-MM-DD)")
	assign.Flags().StringVar(&form.EndDate, "end", "", "end date (YYYY-MM-DD)")
	assign.Flags().Float64Var(&form.AmountPaid, "amount", 0, "amount paid")
	assign.Flags().BoolVar(&form.AutoRenewal, "auto-renew", false, "enable auto renewal")
	_ = assign.MarkFlagRequired("member")
	_ = assign.MarkFlagRequired("plan")
	cmd.AddCommand(assign)

	cmd.AddCommand(&cobra.Command{
		Use:   "member <id>",
		Short: "List a member's memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := e.authorized(cmd.Context(), rbac.ViewMemberships)
			if err != nil {
				return err
			}
			id, err := argID(args)
			if err != nil {
				return err
			}
			mms, err := a.API.Memberships.ByMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(mms))
			for _, mm := range mms {
				rows = append(rows, []string{
					strconv.FormatInt(mm.ID, 10), strconv.FormatInt(mm.PlanID, 10),
					mm.StartDate, mm.EndDate, money(mm.AmountPaid), mm.Status,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "PLAN", "START", "END", "PAID", "STATUS"}, rows)
			return nil
		},
	})

	return cmd
}
