package tryOnService

import (
	"errors"
	"time"

	"ProjectTryOn/internal/api/tryon"
	"ProjectTryOn/pkg/anchor"
	"ProjectTryOn/pkg/frame"
	"ProjectTryOn/pkg/landmark"
	"ProjectTryOn/pkg/metrics"
	"ProjectTryOn/pkg/response"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProcessMessage handles one client message end to end. It never returns an error:
// every failure, including a panic, becomes a tagged Outcome.
func (s *tryOnService) ProcessMessage(ctx context.Context, message []byte) (outcome tryon.Outcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("Recovered while processing frame")
			outcome = tryon.Recovered(r)
		}
		s.metrics.ObserveFrame(outcomeLabel(outcome), time.Since(start))
	}()

	var req tryon.FrameRequest
	if err := json.Unmarshal(message, &req); err != nil {
		s.log.WithField("error", err.Error()).Debug("Frame message does not match the request schema")
		return tryon.Failure(tryon.KindNoImage, err.Error())
	}
	if err := s.validator.Struct(req); err != nil {
		return tryon.Failure(tryon.KindNoImage, err.Error())
	}

	result, err := s.DetectAnchors(ctx, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, tryon.ErrNoImage):
			return tryon.Failure(tryon.KindNoImage, err.Error())
		case errors.Is(err, frame.ErrDecodeFailed):
			return tryon.Failure(tryon.KindDecodeFailed, err.Error())
		default:
			return tryon.Unexpected(err)
		}
	}

	return tryon.Success(result)
}

func (s *tryOnService) DetectAnchors(ctx context.Context, payload string) (*anchor.Result, error) {
	if payload == "" {
		return nil, tryon.ErrNoImage
	}

	f, err := s.decoder.Decode(payload)
	if err != nil {
		s.log.WithField("error", err.Error()).Debug("Failed to decode frame")
		return nil, response.Wrap(tryon.ErrDecodeFailed, err)
	}

	oracleStart := time.Now()
	faces, err := s.oracle.Detect(ctx, f)
	s.metrics.ObserveOracle(time.Since(oracleStart), err)
	if err != nil {
		if errors.Is(err, landmark.ErrOracleUnavailable) {
			return nil, response.Wrap(tryon.ErrLandmarkServiceUnavailable, err)
		}
		return nil, err
	}

	result, err := s.deriver.Derive(f.Width, f.Height, faces)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"width":  f.Width,
		"height": f.Height,
		"format": f.Format,
		"face":   result.Face,
	}).Debug("Frame processed")

	return result, nil
}

func (s *tryOnService) OracleReady() bool {
	return s.oracle.IsConnected()
}

func outcomeLabel(o tryon.Outcome) string {
	if o.Failure != nil {
		switch o.Failure.Kind {
		case tryon.KindNoImage:
			return metrics.OutcomeNoImage
		case tryon.KindDecodeFailed:
			return metrics.OutcomeDecode
		default:
			return metrics.OutcomeUnexpected
		}
	}
	if o.Anchors != nil && o.Anchors.Face {
		return metrics.OutcomeFace
	}
	return metrics.OutcomeNoFace
}
