package main

import (
	"context"
	"fmt"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/homebox/internal/profile"
	"github.com/hrygo/homebox/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		ctx, stop := signal.NotifyContext(cmd.Context(), terminationSignals...)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		if a.services.Reply != nil {
			go func() {
				warmupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.services.Reply.Warmup(warmupCtx)
			}()
		}

		s := server.NewServer(ctx, a.profile, a.store, a.assistant, a.metrics)
		printGreetings(a.profile)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return s.Start(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			s.Shutdown(context.Background())
			return nil
		})
		return g.Wait()
	},
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("HomeBox %s started successfully!\n", profile.Version)
	if profile.IsDev() {
		fmt.Printf("Database: %s\n", profile.DSN)
	}
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)

	host := profile.Addr
	if host == "" {
		host = "localhost"
	}
	fmt.Printf("API: http://%s:%d/api/v1\n", host, profile.Port)
	fmt.Println()
}
