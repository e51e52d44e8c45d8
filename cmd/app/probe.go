package main

import (
	"fmt"
	"os"

	"ProjectTryOn/internal/api/tryon"
	tryOnService "ProjectTryOn/internal/api/tryon/service"
	"ProjectTryOn/internal/config"
	"ProjectTryOn/pkg/anchor"
	"ProjectTryOn/pkg/landmark"
	"ProjectTryOn/pkg/metrics"
	"ProjectTryOn/pkg/utils"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <image_path>",
	Short: "Run anchor detection on a single image and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger, env, err := loadEnv()
		if err != nil {
			return err
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer file.Close()

		payload, err := utils.New(int64(env.MaxFrameBytes)).ConvertFileToBase64(file)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		oracle, err := landmark.NewWebsocketOracle(env.LandmarkConfig(), logger)
		if err != nil {
			return err
		}
		defer oracle.Close()

		svc := tryOnService.NewTryOnService(
			logger,
			config.NewValidator(),
			env.Decoder(),
			oracle,
			anchor.NewDeriver(env.MinLandmarks),
			metrics.New(),
		)

		result, err := svc.DetectAnchors(cmd.Context(), payload)
		if err != nil {
			return err
		}

		out, err := jsoniter.MarshalIndent(tryon.NewAnchorResponse(result), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
