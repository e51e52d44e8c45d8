package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ProjectTryOn/internal/config"
	"ProjectTryOn/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:     "tryon",
	Short:   "Jewelry try-on anchor server",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file")
}

// loadEnv returns the logger and typed configuration shared by every subcommand.
func loadEnv() (*logrus.Logger, config.Env, error) {
	logger := log.NewLogger()

	env, loaded, err := config.LoadEnv(envFile)
	if err != nil {
		return logger, config.Env{}, err
	}
	if !loaded {
		logger.Warnf("No %s file loaded, using process environment", envFile)
	}

	return logger, env, nil
}
