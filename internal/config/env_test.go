package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, loaded, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if loaded {
		t.Error("Expected missing .env file to be reported as not loaded")
	}

	if cfg.Port != "5000" {
		t.Errorf("Expected default port 5000, got %q", cfg.Port)
	}
	if cfg.MinDetectionConfidence != 0.5 || cfg.MinTrackingConfidence != 0.5 {
		t.Errorf("Expected 0.5 confidence defaults, got %v / %v", cfg.MinDetectionConfidence, cfg.MinTrackingConfidence)
	}
	if cfg.MinLandmarks != 468 {
		t.Errorf("Expected 468 minimum landmarks, got %d", cfg.MinLandmarks)
	}
	if cfg.LandmarkReadTimeout != 10*time.Second {
		t.Errorf("Expected 10s read timeout, got %v", cfg.LandmarkReadTimeout)
	}

	if cfg.MaxFramePixels != 40000000 {
		t.Errorf("Expected 40000000 pixel limit, got %d", cfg.MaxFramePixels)
	}
	if cfg.MaxMessageBytes < cfg.MaxFrameBytes {
		t.Errorf("Expected message limit %d to cover frame limit %d", cfg.MaxMessageBytes, cfg.MaxFrameBytes)
	}

	opts := cfg.LandmarkOptions()
	if opts.MaxNumFaces != 1 || !opts.RefineLandmarks {
		t.Errorf("Expected single refined face, got %+v", opts)
	}
}

func TestLoadEnvFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=7070\nLANDMARK_MIN_DETECTION_CONFIDENCE=0.7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("LANDMARK_MIN_DETECTION_CONFIDENCE", "")
	os.Unsetenv("LANDMARK_MIN_DETECTION_CONFIDENCE")

	cfg, loaded, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if !loaded {
		t.Error("Expected .env file to be loaded")
	}
	if cfg.Port != "7070" || cfg.MinDetectionConfidence != 0.7 {
		t.Errorf("Expected values from .env, got port=%q conf=%v", cfg.Port, cfg.MinDetectionConfidence)
	}
}

func TestLoadEnvRejectsInvalidConfidence(t *testing.T) {
	t.Setenv("LANDMARK_MIN_TRACKING_CONFIDENCE", "2")

	if _, _, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for tracking confidence above 1")
	}
}

func TestLoadEnvRejectsMessageLimitBelowFrameLimit(t *testing.T) {
	t.Setenv("MAX_FRAME_BYTES", "2048")
	t.Setenv("MAX_MESSAGE_BYTES", "1024")

	if _, _, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for a message limit below the frame limit")
	}
}
