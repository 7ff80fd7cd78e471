package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edgeflare/pgclient/pkg/admin"
	"github.com/edgeflare/pgclient/pkg/config"
	"github.com/edgeflare/pgclient/pkg/postgrest"
	"github.com/edgeflare/pgclient/pkg/util"
)

var cfgFile string
var logLevel string
var cfg *config.Config
var rootCmd = &cobra.Command{
	Use:   "pgclient",
	Short: "pgclient talks to PostgREST-compatible APIs",
	Long:  `pgclient queries tables and manages row-level security and schema over a PostgREST-compatible REST API`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pgclient.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "info", "log at this level (debug, info, warn, error)")
}

func initConfig() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if logLevel == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	return logger
}

func clientOptions() []postgrest.Option {
	opts := []postgrest.Option{postgrest.WithLogger(newLogger())}
	if cfg.Timeout > 0 {
		opts = append(opts, postgrest.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, postgrest.WithRetry(cfg.MaxRetries))
	}
	return opts
}

// newClient builds an anonymous client from config.
func newClient() (*postgrest.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return postgrest.New(cfg.BaseURL, cfg.AnonKey, clientOptions()...)
}

// newAdmin builds a privileged client; the service key may come from config
// or the PGCLIENT_SERVICEKEY environment variable.
func newAdmin() (*admin.Admin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	serviceKey := util.GetEnvOrDefault("PGCLIENT_SERVICEKEY", cfg.ServiceKey)
	if serviceKey == "" {
		return nil, fmt.Errorf("service key required: set serviceKey in config or PGCLIENT_SERVICEKEY")
	}
	client, err := postgrest.NewService(cfg.BaseURL, cfg.AnonKey, serviceKey, clientOptions()...)
	if err != nil {
		return nil, err
	}
	return admin.New(client)
}
