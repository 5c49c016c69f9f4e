package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/homebox/ai"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/internal/profile"
	"github.com/hrygo/homebox/internal/version"
	"github.com/hrygo/homebox/store"
	"github.com/hrygo/homebox/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "homebox",
	Short: `A household storage assistant. Tell it where things are, in plain Chinese.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Systemd units provide their own environment.
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		setupLogger(viper.GetString("mode"), viper.GetString("log-level"))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28090)
	viper.SetDefault("log-level", "info")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28090, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("log-level", "info", "minimum log level (debug, info, warn, error)")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("homebox")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, parseCmd, chatCmd, versionCmd)
}

// newProfile builds the profile from flags, HOMEBOX_* environment and provider defaults.
func newProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:     viper.GetString("mode"),
		Addr:     viper.GetString("addr"),
		Port:     viper.GetInt("port"),
		Data:     viper.GetString("data"),
		Driver:   viper.GetString("driver"),
		DSN:      viper.GetString("dsn"),
		LogLevel: viper.GetString("log-level"),
		Version:  version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// app is the wired process shared by every subcommand.
type app struct {
	profile   *profile.Profile
	store     *store.Store
	assistant *ai.Assistant
	metrics   *metrics.PrometheusExporter
	services  *ai.Services
}

func newApp(ctx context.Context) (*app, error) {
	p, err := newProfile()
	if err != nil {
		return nil, err
	}

	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		printDatabaseError(err, p)
		return nil, err
	}
	storeInstance := store.New(dbDriver, p)
	if err := storeInstance.Migrate(ctx); err != nil {
		_ = storeInstance.Close()
		return nil, err
	}

	aiConfig := ai.NewConfigFromProfile(p)
	services, err := ai.NewServices(aiConfig)
	if err != nil {
		slog.Warn("AI disabled, using the local parser only", "error", err.Error())
		services = &ai.Services{}
	} else if aiConfig.Enabled {
		slog.Info("LLM services initialized",
			"provider", aiConfig.LLM.Provider,
			"model", aiConfig.LLM.Model,
			"intent_model", aiConfig.Intent.Model,
		)
	} else {
		slog.Info("AI features disabled, no API key configured")
	}

	m := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	return &app{
		profile:   p,
		store:     storeInstance,
		assistant: ai.NewAssistant(aiConfig, services, storeInstance, m),
		metrics:   m,
		services:  services,
	}, nil
}

func setupLogger(mode, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if mode == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

// printDatabaseError explains common database connection failures.
func printDatabaseError(err error, profile *profile.Profile) {
	fmt.Fprintln(os.Stderr, "\n❌ Database Connection Failed")

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		fmt.Fprintln(os.Stderr, "\n📌 PostgreSQL is not reachable.")
		fmt.Fprintln(os.Stderr, "   Or use SQLite: ./homebox --driver=sqlite --data=./data")
	case strings.Contains(errMsg, "sslmode") || strings.Contains(errMsg, "SSL is not enabled"):
		fmt.Fprintln(os.Stderr, "\n📌 PostgreSQL SSL configuration mismatch.")
		fmt.Fprintln(os.Stderr, "   Add ?sslmode=disable to your DSN.")
	case strings.Contains(errMsg, "password authentication failed"):
		fmt.Fprintln(os.Stderr, "\n📌 PostgreSQL authentication failed.")
	case profile.Driver == "sqlite":
		fmt.Fprintln(os.Stderr, "\n📌 Cannot open", profile.DSN)
	default:
		fmt.Fprintln(os.Stderr, "\n📌 Error:", errMsg)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
