package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamhub/cmd/cli/authentication"
	"streamhub/cmd/cli/dto"
)

// auth.go handles authentication commands for the streamhubCLI application.
// Covers credential login, silent session re-authentication on startup,
// logout, and inspecting the stored session.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the StreamHub media server. Supports login, logout, session inspection.`,
}

// loginCmd represents the login command. With no credentials given it
// first attempts a silent login using the stored session token, the same
// way the app re-authenticates on startup; a failed silent attempt is not
// an error, the user just stays logged out.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your StreamHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" && password == "" {
			if trySilentLogin() {
				return nil
			}
			return fmt.Errorf("no stored session; run 'streamhubCLI auth login --email ... --password ...'")
		}

		response, err := app.Client.Login(&dto.LoginRequest{Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("Login failed: invalid email or password")
		}

		// store token and user details in the keyring, keeping the
		// device id stable across logins
		session := &authentication.StoredSession{
			Token:  response.Token,
			UserID: response.UserID,
			Email:  email,
		}
		if app.Session != nil {
			session.DeviceID = app.Session.DeviceID
		}
		if err := authentication.StoreSession(session); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		app.Session = session
		app.Client.SetToken(session.Token)
		app.Client.SetDeviceID(session.DeviceID)

		fmt.Println("✓ Successfully logged in!")
		return nil
	},
}

// trySilentLogin validates the stored token against users/auth-session.
// Failures are swallowed: the caller decides what a logged-out state
// means. A token whose exp claim has already passed skips the network
// call entirely.
func trySilentLogin() bool {
	if app.Session == nil || app.Session.Token == "" {
		return false
	}
	if authentication.TokenExpired(app.Session.Token) {
		return false
	}

	response, err := app.Client.AuthSession(app.Session.Token)
	if err != nil {
		return false
	}

	app.Session.UserID = response.UserID
	fmt.Printf("✓ Logged in as %s\n", app.Session.Email)
	return true
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your StreamHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// clear the stored session and tear down the client's auth state
		if err := authentication.DeleteSession(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		app.Session = nil
		app.Client.SetToken("")
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

// whoamiCmd prints the stored session identity
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}
		fmt.Printf("Email: %s\n", session.Email)
		fmt.Printf("UserID: %s\n", session.UserID)
		fmt.Printf("DeviceID: %s\n", session.DeviceID)
		if authentication.TokenExpired(session.Token) {
			fmt.Println("Token: expired")
		} else {
			fmt.Println("Token: valid")
		}
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "Email address for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
}
