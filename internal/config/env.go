package config

import (
	"fmt"
	"time"

	"ProjectTryOn/pkg/frame"
	"ProjectTryOn/pkg/landmark"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Env struct {
	Port      string `env:"PORT"       envDefault:"5000"`
	AppEnv    string `env:"APP_ENV"    envDefault:"development"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	LandmarkServiceURL     string        `env:"LANDMARK_SERVICE_URL"              envDefault:"ws://localhost:8000/api/v1/landmarks/ws"`
	MinDetectionConfidence float64       `env:"LANDMARK_MIN_DETECTION_CONFIDENCE" envDefault:"0.5"`
	MinTrackingConfidence  float64       `env:"LANDMARK_MIN_TRACKING_CONFIDENCE"  envDefault:"0.5"`
	MinLandmarks           int           `env:"LANDMARK_MIN_POINTS"               envDefault:"468"`
	LandmarkReadTimeout    time.Duration `env:"LANDMARK_READ_TIMEOUT"             envDefault:"10s"`
	LandmarkWriteTimeout   time.Duration `env:"LANDMARK_WRITE_TIMEOUT"            envDefault:"5s"`
	LandmarkPingInterval   time.Duration `env:"LANDMARK_PING_INTERVAL"            envDefault:"30s"`

	MaxFrameBytes      int     `env:"MAX_FRAME_BYTES"       envDefault:"8388608"`
	MaxFramePixels     int     `env:"MAX_FRAME_PIXELS"      envDefault:"40000000"`
	MaxMessageBytes    int     `env:"MAX_MESSAGE_BYTES"     envDefault:"33554432"`
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"50"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST"      envDefault:"100"`
}

// LoadEnv reads .env files when present and parses the process environment.
// A missing .env file is not an error.
func LoadEnv(files ...string) (Env, bool, error) {
	loaded := godotenv.Load(files...) == nil

	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, loaded, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Env{}, loaded, err
	}
	return cfg, loaded, nil
}

func (e Env) Validate() error {
	if err := e.LandmarkOptions().Validate(); err != nil {
		return fmt.Errorf("invalid landmark configuration: %w", err)
	}
	if e.MinLandmarks < 1 {
		return fmt.Errorf("LANDMARK_MIN_POINTS must be positive, got %d", e.MinLandmarks)
	}
	if e.MaxFrameBytes < 1 {
		return fmt.Errorf("MAX_FRAME_BYTES must be positive, got %d", e.MaxFrameBytes)
	}
	if e.MaxFramePixels < 1 {
		return fmt.Errorf("MAX_FRAME_PIXELS must be positive, got %d", e.MaxFramePixels)
	}
	if e.MaxMessageBytes < e.MaxFrameBytes {
		return fmt.Errorf("MAX_MESSAGE_BYTES (%d) must not be below MAX_FRAME_BYTES (%d)", e.MaxMessageBytes, e.MaxFrameBytes)
	}
	return nil
}

func (e Env) LandmarkOptions() landmark.Options {
	opts := landmark.DefaultOptions()
	opts.MinDetectionConfidence = e.MinDetectionConfidence
	opts.MinTrackingConfidence = e.MinTrackingConfidence
	return opts
}

func (e Env) LandmarkConfig() landmark.Config {
	return landmark.Config{
		URL:          e.LandmarkServiceURL,
		Options:      e.LandmarkOptions(),
		ReadTimeout:  e.LandmarkReadTimeout,
		WriteTimeout: e.LandmarkWriteTimeout,
		PingInterval: e.LandmarkPingInterval,
	}
}

func (e Env) Decoder() *frame.Decoder {
	return frame.NewDecoder(e.MaxFrameBytes, e.MaxFramePixels)
}
