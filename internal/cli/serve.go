package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/auth"
	"github.com/rentfold/rentfold/internal/clock"
	"github.com/rentfold/rentfold/internal/logging"
	"github.com/rentfold/rentfold/internal/visit"
	"github.com/rentfold/rentfold/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		slotsFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Starts the HTTP API server backed by the local SQLite database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, slotsFile)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&slotsFile, "slots", "", "YAML slot catalog file (default: built-in catalog)")

	return cmd
}

func runServe(port int, slotsFile string) error {
	cfg := auth.ConfigFromEnv()
	logging.Setup(cfg.DevMode)

	if cfg.JWTSigningKey == "" {
		if !cfg.DevMode {
			return fmt.Errorf("RF_JWT_SIGNING_KEY is required outside dev mode")
		}
		cfg.JWTSigningKey = "dev-signing-key"
		fmt.Fprintln(os.Stderr, "warning: using built-in dev signing key")
	}

	if slotsFile == "" {
		slotsFile = os.Getenv("RF_SLOTS_FILE")
	}

	var slots []visit.TimeSlot
	if slotsFile != "" {
		var err error
		slots, err = visit.LoadSlots(slotsFile)
		if err != nil {
			return fmt.Errorf("loading slot catalog: %w", err)
		}
	}

	database, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	server, err := web.NewServer(database, cfg, clock.System(), slots)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.ListenAndServe(port)
}
