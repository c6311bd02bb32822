package cli

import (
	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/client"
)

func newVisitsCmd() *cobra.Command {
	var (
		status  string
		bucket  string
		assetID int64
		grouped bool
	)

	cmd := &cobra.Command{
		Use:   "visits",
		Short: "List visits",
		Long:  "Lists visits with their derived bucket (upcoming, missed, completed, cancelled, declined). With --grouped, sections them by address and status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()

			if grouped {
				groups, err := c.GroupedVisits()
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(groups)
				}
				printGroupedVisits(groups)
				return nil
			}

			views, err := c.ListVisits(client.VisitListOptions{
				Status:  status,
				AssetID: assetID,
				Bucket:  bucket,
			})
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(views)
			}
			return printVisitTable(views)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|accepted|cancelled|rejected)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "filter by bucket (upcoming|missed|completed|cancelled|declined)")
	cmd.Flags().Int64Var(&assetID, "asset", 0, "filter by asset ID")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "section visits by address and status")

	return cmd
}
