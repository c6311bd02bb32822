package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/offer"
)

func newOfferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Work with a single offer",
	}

	cmd.AddCommand(
		newOfferCreateCmd(),
		newOfferShowCmd(),
		newOfferActionCmd("accept", "Accept a pending offer"),
		newOfferActionCmd("reject", "Reject a pending offer"),
		newOfferActionCmd("cancel", "Cancel an offer"),
		newOfferCounterCmd(),
		newOfferHistoryCmd(),
		newOfferCompareCmd(),
	)

	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

func newOfferCreateCmd() *cobra.Command {
	var (
		role         string
		leaseListing int64
		saleListing  int64
		price        int64
		leasePeriod  int
		lockIn       int
		moveIn       string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Make a new offer on a listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			view, err := c.CreateOffer(&offer.Offer{
				Role:            offer.Role(role),
				LeaseListing:    leaseListing,
				SaleListing:     saleListing,
				Price:           price,
				LeasePeriod:     leasePeriod,
				MinLockInPeriod: lockIn,
				MoveInDate:      moveIn,
				Actions:         []offer.Action{offer.ActionAccept, offer.ActionReject},
				CanCounter:      true,
			})
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			printOfferDetail(view)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "tenant", "acting role (owner|tenant)")
	cmd.Flags().Int64Var(&leaseListing, "lease-listing", 0, "lease listing ID")
	cmd.Flags().Int64Var(&saleListing, "sale-listing", 0, "sale listing ID")
	cmd.Flags().Int64Var(&price, "price", 0, "offered price")
	cmd.Flags().IntVar(&leasePeriod, "lease-period", 0, "lease period in months")
	cmd.Flags().IntVar(&lockIn, "lock-in", 0, "minimum lock-in period in months")
	cmd.Flags().StringVar(&moveIn, "move-in", "", "move-in date (YYYY-MM-DD)")

	return cmd
}

func newOfferShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an offer with its decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			view, err := newAPIClient().GetOffer(id)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			printOfferDetail(view)
			return nil
		},
	}
}

func newOfferActionCmd(action, short string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			view, err := newAPIClient().ActOnOffer(id, offer.Action(action), reason)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			fmt.Printf("Offer #%d is now %s.\n", view.Offer.ID, view.Offer.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason for the action")

	return cmd
}

func newOfferCounterCmd() *cobra.Command {
	var (
		price       int64
		leasePeriod int
		lockIn      int
		moveIn      string
	)

	cmd := &cobra.Command{
		Use:   "counter <id>",
		Short: "Counter a pending offer with new terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			view, err := newAPIClient().CounterOffer(id, offer.Terms{
				Price:           price,
				LeasePeriod:     leasePeriod,
				MinLockInPeriod: lockIn,
				MoveInDate:      moveIn,
			}, nil)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(view)
			}
			fmt.Printf("Counter-offer #%d created on offer #%d.\n", view.Offer.ID, view.Offer.ParentID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&price, "price", 0, "countered price")
	cmd.Flags().IntVar(&leasePeriod, "lease-period", 0, "lease period in months")
	cmd.Flags().IntVar(&lockIn, "lock-in", 0, "minimum lock-in period in months")
	cmd.Flags().StringVar(&moveIn, "move-in", "", "move-in date (YYYY-MM-DD)")

	return cmd
}

func newOfferHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the counter chain containing an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			views, err := newAPIClient().OfferHistory(id)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(views)
			}
			return printOfferTable(views)
		},
	}
}

func newOfferCompareCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "compare <id>",
		Short: "Compare an offer against the prior offer in its chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			rows, err := newAPIClient().CompareOffer(id, currency)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(rows)
			}
			printCompareRows(rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "$", "currency symbol for amounts")

	return cmd
}
