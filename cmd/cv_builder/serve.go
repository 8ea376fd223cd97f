package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/drafts"
	"github.com/jonathan/cv-builder/internal/release"
	"github.com/jonathan/cv-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the renderer over REST.

Rendering needs no external services. Wizard drafts are enabled when REDIS_URL
is set; stored documents when DATABASE_URL is set; paid downloads when
DATABASE_URL and RELEASE_SECRET are both set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	envCfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if cmd.Flags().Changed("port") {
		envCfg.Port = servePort
	}

	cfg := server.Config{
		Port: envCfg.Port,
		Renderer: newRenderer(rendererOptions{
			Backend:    envCfg.Backend,
			Rasterizer: envCfg.Rasterizer,
			ChromePath: envCfg.ChromePath,
			DPI:        envCfg.DPI,
			Timeout:    envCfg.RenderTimeout,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if envCfg.RedisURL != "" {
		client, err := drafts.Connect(ctx, envCfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cfg.Drafts = drafts.NewStore(client, envCfg.DraftTTL)
		cfg.OnShutdown = append(cfg.OnShutdown, func() { _ = client.Close() })
		log.Printf("[serve] drafts enabled (ttl %v)", envCfg.DraftTTL)
	}

	if envCfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, envCfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		cfg.OnShutdown = append(cfg.OnShutdown, database.Close)
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		cfg.Documents = database

		releaseCfg, err := config.NewReleaseConfig()
		if err != nil {
			log.Printf("[serve] paid downloads disabled: %v", err)
		} else {
			cfg.Gate = release.NewGate(database, release.NewTokenService(releaseCfg))
		}
	}

	return server.New(cfg).Start()
}
