package tryOnService

import (
	"ProjectTryOn/internal/api/tryon"
	"ProjectTryOn/pkg/anchor"
	"ProjectTryOn/pkg/frame"
	"ProjectTryOn/pkg/landmark"
	"ProjectTryOn/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ITryOnService interface {
	ProcessMessage(ctx context.Context, message []byte) tryon.Outcome
	DetectAnchors(ctx context.Context, payload string) (*anchor.Result, error)
	OracleReady() bool
}

type tryOnService struct {
	log       *logrus.Logger
	validator *validator.Validate
	decoder   *frame.Decoder
	oracle    landmark.Oracle
	deriver   *anchor.Deriver
	metrics   metrics.IMetrics
}

func NewTryOnService(
	log *logrus.Logger,
	validator *validator.Validate,
	decoder *frame.Decoder,
	oracle landmark.Oracle,
	deriver *anchor.Deriver,
	metrics metrics.IMetrics,
) ITryOnService {
	return &tryOnService{
		log:       log,
		validator: validator,
		decoder:   decoder,
		oracle:    oracle,
		deriver:   deriver,
		metrics:   metrics,
	}
}
