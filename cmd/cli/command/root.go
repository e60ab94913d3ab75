package command

// root.go defines the root command for the streamhubCLI application.
// The composition root lives here: configuration, logging and the media
// server client are built once per invocation and handed to subcommands,
// instead of scattering token/base-URL globals around the screens.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"streamhub/cmd/cli/authentication"
	"streamhub/cmd/cli/command/client"
	"streamhub/internal/config"
)

var (
	apiURL      string // global flag for the media server URL; overrides SERVER_URL
	metadataURL string // global flag for the metadata provider URL; overrides METADATA_API_URL

	app *App
)

// App carries the per-invocation application state built at startup and
// torn down on logout: configuration, the API client, and whatever
// session the keyring held.
type App struct {
	Config  *config.Config
	Client  *client.HTTPClient
	Session *authentication.StoredSession // nil when logged out
	Logger  *slog.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamhubCLI",
	Short: "streamhubCLI - StreamHub Command Line Interface",
	Long: `streamhubCLI is a terminal client for a StreamHub media server. User can
use this application to:
- Browse the movie and show catalog
- Play media through mpv with resume support
- Bookmark and rate movies and shows
- Sync watch progress back to the server

Use "streamhubCLI command -help" or "streamhubCLI command -h" to see all available commands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Media server URL (overrides SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&metadataURL, "metadata-api", "", "Metadata provider URL (overrides METADATA_API_URL)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(showCmd)
}

// initApp builds the App from environment and flag configuration, then
// restores whatever session the keyring holds. A missing session is not
// an error here; commands that need one say so themselves.
func initApp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.ServerURL = apiURL
	}
	if metadataURL != "" {
		cfg.MetadataAPIURL = metadataURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	httpClient := client.NewHTTPClient(cfg.ServerURL, cfg.HTTPTimeout)
	httpClient.SetAccessToken(cfg.AccessToken)

	session, err := authentication.GetSession()
	if err != nil {
		session = nil
	}
	if session != nil {
		httpClient.SetToken(session.Token)
		httpClient.SetDeviceID(session.DeviceID)
	}

	app = &App{
		Config:  cfg,
		Client:  httpClient,
		Session: session,
		Logger:  logger,
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// requireSession returns the active session or an error directing the
// user to log in first.
func requireSession() (*authentication.StoredSession, error) {
	if app.Session == nil {
		return nil, fmt.Errorf("not logged in, please run 'streamhubCLI auth login'")
	}
	return app.Session, nil
}
