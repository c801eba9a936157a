package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/tui"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site with a canned-reply chat widget",
	Long: `Serves the portfolio: hero typewriter, about, skills and project filters,
contact form, and the "Chat with AI Me" widget.

Examples:
  portfolio                 # same as 'portfolio serve'
  portfolio serve --port 3000
  portfolio chat            # talk to the chat widget on stdin
  portfolio tui             # terminal edition`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(v.GetBool(config.KeyLogJSON), v.GetBool(config.KeyDebug)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the web server",
	RunE:    runServe,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the responder on stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, doc, err := loadAll()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runChat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), responder.New(), cfg.ChatReplyDelay, doc.Chat.Greeting)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal edition",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, doc, err := loadAll()
		if err != nil {
			return err
		}
		// Log lines would tear up the alt screen.
		logger.Disable()
		return tui.Run(doc, responder.New(), cfg.ChatReplyDelay)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("port", "8080", "HTTP port")
	flags.Bool("debug", false, "Debug logging")
	flags.Bool("log-json", false, "JSON log output")
	flags.String("content", "", "TOML content file (default: embedded content)")
	flags.Bool("watch", false, "Reload the content file when it changes")
	flags.String("analytics-db", "", "SQLite file for visitor counts (empty disables tracking)")
	flags.Duration("reply-delay", 0, "Delay before chat replies (default 1s)")

	bindFlag(config.KeyPort, "port")
	bindFlag(config.KeyDebug, "debug")
	bindFlag(config.KeyLogJSON, "log-json")
	bindFlag(config.KeyContentFile, "content")
	bindFlag(config.KeyWatchContent, "watch")
	bindFlag(config.KeyAnalyticsDB, "analytics-db")
	bindFlag(config.KeyChatReplyDelay, "reply-delay")

	rootCmd.AddCommand(serveCmd, chatCmd, tuiCmd)
}

// bindFlag lets an explicitly set flag override the environment.
func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func loadAll() (*config.Config, *content.Content, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	doc, err := content.Load(cfg.ContentFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, doc, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	store, err := content.NewStore(cfg.ContentFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WatchContent {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Named("content").Errorw("content watcher stopped", logger.FieldError, err)
			}
		}()
	}

	var stats *analytics.Store
	if cfg.AnalyticsDB != "" {
		stats, err = analytics.Open(cfg.AnalyticsDB, cfg.AnalyticsSalt)
		if err != nil {
			return err
		}
		defer stats.Close()
		logger.Logger.Infow("privacy: visitor tracking enabled with hashed IP addresses", logger.FieldFile, cfg.AnalyticsDB)
	}

	srv := newServer(cfg, store, responder.New(), senderFor(cfg), stats)
	if stats != nil {
		go srv.cleanupVisitors(ctx)
	}
	return srv.serve(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
