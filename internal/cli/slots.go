package cli

import (
	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List bookable time slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := newAPIClient().ListSlots()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(slots)
			}
			printSlots(slots)
			return nil
		},
	}
}
