package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igkit/pkg/instagram"
	"igkit/pkg/store"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the session securely",
	Long: `Log in to Instagram with a username and password.

The password is encrypted with Instagram's hybrid RSA/AES scheme before
it leaves the machine. Two-factor and checkpoint challenges are handled
interactively. On success the session state is persisted so later
commands reuse it without logging in again.`,
	Example: `  igkit login myusername`,
	Args:    cobra.ExactArgs(1),
	RunE:    runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <username>",
	Short: "Log out and remove the stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// accountsCmd represents the accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List stored sessions",
	RunE:  runAccounts,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])

	fmt.Printf("Password for %s: ", username)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	if password == "" {
		return fmt.Errorf("password is required")
	}

	ig := instagram.New(username, cfg)

	if _, err := ig.Authentication.Bootstrap(); err != nil {
		return fmt.Errorf("bootstrap failed: %s", err.Message)
	}

	result := ig.Authentication.Authenticate(username, password)
	return resolveAuthResult(ig, username, password, result)
}

// resolveAuthResult walks the login state machine until a terminal state,
// prompting the operator where the flow needs input.
func resolveAuthResult(ig *instagram.Instagram, username, password string, result instagram.AuthResult) error {
	switch r := result.(type) {
	case instagram.AuthSuccess:
		return persistSession(username, r.PrimaryKey, r.SessionData)

	case instagram.AuthTwoFactorRequired:
		code, err := promptLine("Two-factor code: ")
		if err != nil {
			return err
		}
		tf := ig.Authentication.TwoFactorLogin(code, r.Identifier, r.Token, username, password)
		switch t := tf.(type) {
		case instagram.TwoFactorSuccess:
			return persistSession(username, t.PrimaryKey, t.SessionData)
		case instagram.TwoFactorFailure:
			return fmt.Errorf("two-factor login failed: %s", t.Message)
		}
		return fmt.Errorf("unexpected two-factor result")

	case instagram.AuthChallengeRequired:
		return resolveChallenge(ig, username, r.Path)

	case instagram.AuthInvalidCredentials:
		return fmt.Errorf("%s", r.Message)

	case instagram.AuthTokenFailure:
		return fmt.Errorf("token fetch failed: %s", r.Message)

	case instagram.AuthFailure:
		return fmt.Errorf("login failed (%d): %s", r.Code, r.Message)
	}
	return fmt.Errorf("unexpected login result")
}

func resolveChallenge(ig *instagram.Instagram, username, path string) error {
	fmt.Println("Instagram flagged this login for verification.")

	prep := ig.Authentication.PrepareChallenge(path)
	prepared, ok := prep.(instagram.ChallengePrepared)
	if !ok {
		if f, isFailure := prep.(instagram.ChallengeFailure); isFailure {
			return fmt.Errorf("challenge failed: %s", f.Message)
		}
		return fmt.Errorf("unexpected challenge result")
	}

	if prepared.StepName == "select_verify_method" {
		method, err := promptLine("Send code via (phone/email): ")
		if err != nil {
			return err
		}
		method = strings.ToLower(strings.TrimSpace(method))
		if method != instagram.AuthMethodPhone && method != instagram.AuthMethodEmail {
			method = instagram.AuthMethodEmail
		}

		sel := ig.Authentication.SelectChallengeMethod(path, method)
		switch s := sel.(type) {
		case instagram.PhoneSelectionSuccess:
			fmt.Println("A code was sent to your phone.")
		case instagram.EmailSelectionSuccess:
			fmt.Println("A code was sent to your email.")
		case instagram.MethodSelectionFailure:
			return fmt.Errorf("method selection failed: %s", s.Message)
		}
	}

	code, err := promptLine("Verification code: ")
	if err != nil {
		return err
	}

	sub := ig.Authentication.SubmitChallengeCode(path, code)
	switch s := sub.(type) {
	case instagram.ChallengeSubmitSuccess:
		return persistSession(username, s.PrimaryKey, s.SessionData)
	case instagram.ChallengeSubmitFailure:
		return fmt.Errorf("challenge code rejected: %s", s.Message)
	}
	return fmt.Errorf("unexpected challenge submit result")
}

func persistSession(username, primaryKey, sessionData string) error {
	manager, err := store.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	record := &store.Record{
		Username:   username,
		InstanceID: username,
		PrimaryKey: primaryKey,
		Data:       sessionData,
	}
	if err := manager.Store(record); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	fmt.Printf("Logged in as %s (pk %s). Session stored.\n", username, primaryKey)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])

	manager, err := store.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Best effort server-side logout before dropping local state
	if ig, err := restoreClient(manager, username); err == nil {
		if apiErr := ig.Authentication.Logout(); apiErr != nil {
			fmt.Fprintf(os.Stderr, "warning: server logout failed: %s\n", apiErr.Message)
		}
	}

	if err := manager.Delete(username); err != nil {
		return fmt.Errorf("no stored session for %s", username)
	}

	fmt.Printf("Removed session for %s.\n", username)
	return nil
}

func runAccounts(cmd *cobra.Command, args []string) error {
	manager, err := store.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	records, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No stored sessions. Run 'igkit login <username>' first.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%-24s pk=%-16s modified=%s\n",
			r.Username, r.PrimaryKey, r.LastModified.Format(time.RFC3339))
	}
	return nil
}

// restoreClient rebuilds an SDK instance from a stored session record.
func restoreClient(manager *store.Manager, username string) (*instagram.Instagram, error) {
	record, err := manager.Retrieve(username)
	if err != nil {
		return nil, fmt.Errorf("no stored session for %s, run 'igkit login %s' first", username, username)
	}

	ig, err := instagram.Restore(record.InstanceID, record.Data, cfg)
	if err != nil {
		return nil, fmt.Errorf("stored session for %s is corrupt: %w", username, err)
	}
	return ig, nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}
