package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/visit"
)

func newVisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Work with a single visit",
	}

	cmd.AddCommand(
		newVisitScheduleCmd(),
		newVisitShowCmd(),
		newVisitActionCmd("accept", "Accept a pending visit"),
		newVisitActionCmd("reject", "Reject a pending visit"),
		newVisitActionCmd("cancel", "Cancel a pending or accepted visit"),
		newVisitRescheduleCmd(),
	)

	return cmd
}

func newVisitScheduleCmd() *cobra.Command {
	var req visit.ScheduleRequest

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Book a visit for a date and slot, or reuse an upcoming visit's window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := newAPIClient().ScheduleVisit(req)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			printVisitDetail(view)
			return nil
		},
	}

	cmd.Flags().Int64Var(&req.AssetID, "asset", 0, "asset ID")
	cmd.Flags().StringVar(&req.Address, "address", "", "property address")
	cmd.Flags().Int64Var(&req.LeaseListing, "lease-listing", 0, "lease listing ID")
	cmd.Flags().Int64Var(&req.SaleListing, "sale-listing", 0, "sale listing ID")
	cmd.Flags().StringVar(&req.Date, "date", "", "visit date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&req.SlotID, "slot", 0, "time slot ID (see 'rf slots')")
	cmd.Flags().Int64Var(&req.ReuseVisitID, "reuse", 0, "reuse the window of this upcoming visit")
	cmd.Flags().StringVar(&req.Role, "role", "tenant", "acting role")
	cmd.Flags().StringVar(&req.Visitor, "visitor", "", "visitor name")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "comment for the visit")

	return cmd
}

func newVisitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visit with its bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			view, err := newAPIClient().GetVisit(id)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			printVisitDetail(view)
			return nil
		},
	}
}

func newVisitActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			view, err := newAPIClient().ActOnVisit(id, visit.Action(action))
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			fmt.Printf("Visit #%d is now %s (%s).\n", view.Visit.ID, view.Visit.Status, view.Bucket)
			return nil
		},
	}
}

func newVisitRescheduleCmd() *cobra.Command {
	var (
		date    string
		slotID  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "reschedule <id>...",
		Short: "Move one or more visits to a new date and slot",
		Long:  "Moves every listed visit to the new window in a single batch. All visits must reference the same listing.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			payload, err := newAPIClient().RescheduleVisits(ids, date, slotID, comment)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(payload)
			}
			fmt.Printf("Rescheduled %d visits to %s.\n", len(payload.IDs), payload.StartDate.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new visit date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&slotID, "slot", 0, "new time slot ID (see 'rf slots')")
	cmd.Flags().StringVar(&comment, "comment", "", "comment for the reschedule")

	return cmd
}
