package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	cmd.AddCommand(
		newKeysListCmd(),
		newKeysCreateCmd(),
		newKeysDeleteCmd(),
	)

	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := newAPIClient().ListKeys()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(keys)
			}
			if len(keys) == 0 {
				fmt.Println("No API keys.")
				return nil
			}
			for _, k := range keys {
				fmt.Printf("  #%d  %s  (%s…)\n", k.ID, k.Name, k.KeyPrefix)
			}
			return nil
		},
	}
}

func newKeysCreateCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Mint a new API key",
		Long:  "Mints a long-lived API key. The raw key is shown once; with --save it replaces the stored credential.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newAPIClient().CreateKey(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("API key (shown once): %s\n", raw)

			if save {
				cfg, err := loadConfig()
				if err != nil {
					cfg = CLIConfig{}
				}
				cfg.Token = raw
				if err := saveConfig(cfg); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				fmt.Println("✓ Key saved as the CLI credential.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the key as the CLI credential")

	return cmd
}

func newKeysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your API keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := newAPIClient().DeleteKey(id); err != nil {
				return err
			}
			fmt.Printf("✓ Key #%d deleted.\n", id)
			return nil
		},
	}
}
