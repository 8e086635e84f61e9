package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alantheprice/pageforge/pkg/config"
	"github.com/alantheprice/pageforge/pkg/events"
	"github.com/alantheprice/pageforge/pkg/generator"
	"github.com/alantheprice/pageforge/pkg/gitcmd"
	"github.com/alantheprice/pageforge/pkg/github"
	"github.com/alantheprice/pageforge/pkg/llm"
	"github.com/alantheprice/pageforge/pkg/logging"
	"github.com/alantheprice/pageforge/pkg/notify"
	"github.com/alantheprice/pageforge/pkg/publish"
	"github.com/alantheprice/pageforge/pkg/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Starts the pageforge webhook server. Configuration comes from the
environment; WEBHOOK_SECRET, GITHUB_TOKEN, GITHUB_USERNAME and (for the
default gemini provider) GEMINI_API_KEY are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PAGEFORGE_PORT)")
}

func runServe() error {
	log := logging.Get()

	cfg := config.Load()
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	client, err := llm.New(cfg)
	if err != nil {
		return fmt.Errorf("could not create model client: %w", err)
	}

	gen := generator.New(client, cfg.GenerateTimeout)
	git := gitcmd.NewExecRunner(cfg.GitTimeout)
	hosting := github.NewClient(cfg.GitHubToken, cfg.GitHubUsername, cfg.HTTPTimeout)
	pub := publish.New(cfg, git, hosting)
	notifier := notify.New()
	bus := events.NewBus()

	srv := server.New(cfg, gen, pub, notifier, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Infof("serving with provider=%s model=%s", cfg.Provider, cfg.Model)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Infof("shutting down")
	return srv.Shutdown()
}
