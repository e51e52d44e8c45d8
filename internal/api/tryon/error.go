package tryon

import (
	"ProjectTryOn/pkg/response"
	"net/http"
)

var (
	ErrNoImage                    = response.NewError(http.StatusBadRequest, string(KindNoImage))
	ErrDecodeFailed               = response.NewError(http.StatusBadRequest, string(KindDecodeFailed))
	ErrLandmarkServiceUnavailable = response.NewError(http.StatusBadGateway, "landmark_service_unavailable")
)
