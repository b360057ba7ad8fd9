package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fittrack/fittrack-client/internal/api"
	"github.com/fittrack/fittrack-client/internal/core/ports"
	"github.com/fittrack/fittrack-client/internal/core/service"
	"github.com/fittrack/fittrack-client/internal/infrastructure/backend"
	"github.com/fittrack/fittrack-client/internal/infrastructure/config"
	filestore "github.com/fittrack/fittrack-client/internal/infrastructure/storage/file"
	memorystore "github.com/fittrack/fittrack-client/internal/infrastructure/storage/memory"
	redisstore "github.com/fittrack/fittrack-client/internal/infrastructure/storage/redis"
	"github.com/fittrack/fittrack-client/pkg/logger"
)

// @title        FitTrack Client Session API
// @version      1.0
// @description  Session and role-resolution surface of the FitTrack client shell.
// @BasePath     /
func main() {
	root := &cobra.Command{
		Use:           "fittrack",
		Short:         "FitTrack client session shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), loginCmd(), whoamiCmd(), logoutCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads .env + environment configuration and wires the session core.
func setup() (*config.Config, *service.SessionService, ports.TokenStore, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.HTTPTimeout, log)
	session := service.NewSessionService(store, client, cfg.Backend.LoadTimeout, log)
	return cfg, session, store, nil
}

func buildStore(cfg *config.Config) (ports.TokenStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := redisstore.Connect(context.Background(), redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil
	case "memory":
		return memorystore.New(0), nil
	default:
		return filestore.New(cfg.Storage.Path, cfg.Storage.Key), nil
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the client shell HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, session, store, err := setup()
			if err != nil {
				return err
			}
			log := logger.Get()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := session.Restore(ctx); err != nil {
				log.Warn().Err(err).Msg("session restore failed")
			}

			e := api.NewRouter(session, store, log)
			go func() {
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("server stopped")
					stop()
				}
			}()
			log.Info().Str("port", cfg.Port).Msg("client shell listening")

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for tokens and store them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, session, _, err := setup()
			if err != nil {
				return err
			}
			if err := session.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			return printSession(session)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Restore the stored session and print the identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, session, _, err := setup()
			if err != nil {
				return err
			}
			if err := session.Restore(cmd.Context()); err != nil {
				return err
			}
			if !session.IsAuthenticated() {
				return errors.New("not authenticated")
			}
			return printSession(session)
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored tokens",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, session, _, err := setup()
			if err != nil {
				return err
			}
			session.Logout()
			fmt.Println("logged out")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Check whether the stored access token is still valid",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, session, _, err := setup()
			if err != nil {
				return err
			}
			if !session.CheckTokenExpiration() {
				return errors.New("token missing or expired")
			}
			fmt.Println("token valid")
			return nil
		},
	}
}

func printSession(session *service.SessionService) error {
	out := map[string]any{
		"authenticated": session.IsAuthenticated(),
		"account":       session.Account(),
	}
	if role, ok := session.ResolvedRole(); ok {
		out["role"] = string(role)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
