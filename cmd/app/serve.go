package main

import (
	"time"

	"ProjectTryOn/internal/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the try-on websocket and the client app",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger, env, err := loadEnv()
		if err != nil {
			return err
		}

		server, err := config.NewServer(
			config.WithFiber(config.NewFiber(logger, env)),
			config.WithLogger(logger),
			config.WithEnv(env),
			config.WithValidator(config.NewValidator()),
			config.WithUtils(),
			config.WithMiddleware(),
			config.WithLandmarkService(),
		)
		if err != nil {
			return err
		}

		server.RegisterHandler()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Run()
		}()

		logger.WithField("port", env.Port).Info("Server started successfully")

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		logger.Info("Shutting down server...")
		return server.Shutdown(shutdownTimeout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
