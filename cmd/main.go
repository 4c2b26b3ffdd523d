package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	"macrofeed/config"
	"macrofeed/core"
	"macrofeed/handlers"
	"macrofeed/middleware"
	"macrofeed/services/macros"
	"macrofeed/services/updates"
)

type Options struct {
	Port    string   `long:"port" description:"Port to listen on (overrides PORT)"`
	EnvFile []string `long:"env-file" description:"Env file to load before reading configuration (repeatable, default .env)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.EnvFile...)
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "macrofeed",
		LogsURL:     cfg.ServerLogsURL,
	})

	updatesService := updates.NewUpdatesService(cfg.MaxUpdatesPerMacro, core.NewUpdateIDGenerator())
	macrosService := macros.NewMacrosService(cfg.ConfiguredMacros)

	updatesHTTPHandler := handlers.NewUpdatesHTTPHandler(updatesService, macrosService)

	router := mux.NewRouter()
	updatesHTTPHandler.SetupEndpoints(router)

	if cfg.DiscordConfig.IsConfigured() {
		relay, err := handlers.NewDiscordRelayHandler(cfg.DiscordConfig.BotToken, updatesService, macrosService)
		if err != nil {
			return err
		}
		if err := alertMiddleware.WrapBackgroundTask("StartDiscordRelay", relay.StartBot)(); err != nil {
			return err
		}
		defer relay.StopBot()
	}

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.WithRequestLogging(alertMiddleware.HTTPMiddleware(c.Handler(router))),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Printf("❌ Server error: %v", err)
		return err
	case <-stop:
		log.Printf("🛑 Shutdown signal received, cleaning up...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
