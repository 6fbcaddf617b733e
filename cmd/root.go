package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/qbitctl/config"
	"github.com/s0up4200/qbitctl/qbittorrent"
)

// annotationRemote marks commands that need an authenticated session
const annotationRemote = "remote"

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
	logger  zerolog.Logger
	client  *qbittorrent.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qbitctl",
	Short: "Control a qBittorrent instance through its Web API",
	Long: `qbitctl talks to the qBittorrent Web UI API. It lists and filters
torrents, adds new ones from files or URLs, changes their state and
reads or writes application preferences.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeSession,
}

// SetVersion sets the build information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE does not run when a command fails
	_ = closeSession(rootCmd, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.config/qbitctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
		&cobra.Group{ID: "torrents", Title: "Torrent Commands:"},
		&cobra.Group{ID: "app", Title: "Application Commands:"},
	)
}

// remote marks cmd as needing a session and assigns its help group
func remote(cmd *cobra.Command, group string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRemote] = "true"
	cmd.GroupID = group
	return cmd
}

// initializeApp loads the configuration and, for remote commands, logs in
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	logger = setupLogger(cfg.Logging)

	if cmd.Annotations[annotationRemote] != "true" {
		return nil
	}

	return connect(cmd.Context())
}

// connect creates the client and logs in with the configured credentials
func connect(ctx context.Context) error {
	var err error
	client, err = newClient(cfg.QBittorrent)
	if err != nil {
		return fmt.Errorf("failed to create qBittorrent client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.QBittorrent.Timeout)
	defer cancel()

	if err := client.Authenticate(ctx, cfg.QBittorrent.Username, cfg.QBittorrent.Password); err != nil {
		return fmt.Errorf("failed to log in to %s: %w", cfg.QBittorrent.URL, err)
	}

	logger.Debug().Str("url", client.BaseURL()).Msg("Authenticated")
	return nil
}

func newClient(c config.QBittorrentConfig) (*qbittorrent.Client, error) {
	opts := []qbittorrent.Option{
		qbittorrent.WithTimeout(c.Timeout),
		qbittorrent.WithUserAgent("qbitctl/" + version),
		qbittorrent.WithLogger(logger),
	}
	if c.InsecureSkipVerify {
		opts = append(opts, qbittorrent.WithInsecureSkipVerify())
	}
	return qbittorrent.NewClient(c.URL, opts...)
}

// closeSession logs out after a remote command. Failures are only logged.
func closeSession(cmd *cobra.Command, args []string) error {
	if client == nil || !client.IsAuthenticated() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Logout(ctx); err != nil {
		logger.Debug().Err(err).Msg("Logout failed")
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	isTerm := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerm,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
