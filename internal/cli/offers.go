package cli

import (
	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/client"
)

func newOffersCmd() *cobra.Command {
	var (
		status       string
		role         string
		leaseListing int64
		saleListing  int64
	)

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "List offers",
		Long:  "Lists offers with their derived state: remaining validity, legal actions, and expiry flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			views, err := c.ListOffers(client.OfferListOptions{
				Status:       status,
				Role:         role,
				LeaseListing: leaseListing,
				SaleListing:  saleListing,
			})
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(views)
			}
			return printOfferTable(views)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|accepted|rejected|cancelled)")
	cmd.Flags().StringVar(&role, "role", "", "filter by role (owner|tenant)")
	cmd.Flags().Int64Var(&leaseListing, "lease-listing", 0, "filter by lease listing ID")
	cmd.Flags().Int64Var(&saleListing, "sale-listing", 0, "filter by sale listing ID")

	return cmd
}
