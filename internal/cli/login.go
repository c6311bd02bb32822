package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rentfold/rentfold/internal/client"
)

func newLoginCmd() *cobra.Command {
	var (
		server string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in via magic link and store an access token",
		Long:  "Requests a magic link for your email, then exchanges the link's token for an access token stored in the CLI config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(server, email)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&email, "email", "", "email address to log in with")

	return cmd
}

func runLogin(serverFlag, email string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("no email provided")
	}

	c := client.New(serverURL, "")
	if err := c.Login(email); err != nil {
		return fmt.Errorf("requesting magic link: %w", err)
	}

	fmt.Printf("Magic link sent to %s.\n", email)
	fmt.Print("Paste the token from the link: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	magicToken := strings.TrimSpace(line)
	if magicToken == "" {
		return fmt.Errorf("no token provided")
	}

	access, verifiedEmail, err := c.Verify(magicToken)
	if err != nil {
		return fmt.Errorf("verifying token: %w", err)
	}
	if err := validateToken(access); err != nil {
		return err
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.Token = access
	cfg.Email = verifiedEmail
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("✓ Access token saved. You're logged in!")
	return nil
}

// validateToken checks that the credential is a plausible API key or
// access token.
func validateToken(token string) error {
	if token == "" {
		return fmt.Errorf("no token provided")
	}
	if !strings.HasPrefix(token, "rf_") && strings.Count(token, ".") != 2 {
		return fmt.Errorf("invalid token format (expected an rf_ key or an access token)")
	}
	return nil
}
