package landmark

import (
	"context"
	"errors"
	"fmt"

	"ProjectTryOn/pkg/frame"
)

// DefaultMinPoints is the landmark count of a refined face mesh (468 + iris points).
const DefaultMinPoints = 468

var (
	ErrOracleUnavailable = errors.New("landmark service unavailable")
	ErrOracleFailure     = errors.New("landmark service failure")
)

// Point is one landmark as reported by the model. X and Y are normalized to the frame
// size, Z is relative depth where more negative means closer to the camera.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Face is the ordered landmark set of one detected face.
type Face []Point

type Options struct {
	MaxNumFaces            int     `json:"max_num_faces"`
	RefineLandmarks        bool    `json:"refine_landmarks"`
	MinDetectionConfidence float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `json:"min_tracking_confidence"`
}

func DefaultOptions() Options {
	return Options{
		MaxNumFaces:            1,
		RefineLandmarks:        true,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}

func (o Options) Validate() error {
	if o.MaxNumFaces < 1 {
		return fmt.Errorf("max_num_faces must be at least 1, got %d", o.MaxNumFaces)
	}
	if o.MinDetectionConfidence < 0 || o.MinDetectionConfidence > 1 {
		return fmt.Errorf("min_detection_confidence must be within [0,1], got %v", o.MinDetectionConfidence)
	}
	if o.MinTrackingConfidence < 0 || o.MinTrackingConfidence > 1 {
		return fmt.Errorf("min_tracking_confidence must be within [0,1], got %v", o.MinTrackingConfidence)
	}
	return nil
}

// Oracle detects facial landmarks on a decoded frame. An empty result means no face.
type Oracle interface {
	Detect(ctx context.Context, f *frame.Frame) ([]Face, error)
	IsConnected() bool
	Close() error
}
