package tryon

import "ProjectTryOn/pkg/anchor"

// FrameRequest is the only message a client sends: one webcam frame as a data URI.
type FrameRequest struct {
	Image string `json:"image" validate:"required"`
}

type AnchorResponse struct {
	Face     bool         `json:"face"`
	W        int          `json:"w"`
	H        int          `json:"h"`
	FaceW    float64      `json:"faceW"`
	FaceH    float64      `json:"faceH"`
	Nose     anchor.Point `json:"nose"`
	Chin     anchor.Point `json:"chin"`
	LeftEar  anchor.Point `json:"leftEar"`
	RightEar anchor.Point `json:"rightEar"`
}

type NoFaceResponse struct {
	Face bool `json:"face"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewAnchorResponse returns {"face": false} alone when nothing was detected, and the
// full anchor set otherwise.
func NewAnchorResponse(r *anchor.Result) interface{} {
	if r == nil || !r.Face {
		return NoFaceResponse{Face: false}
	}
	return AnchorResponse{
		Face:     true,
		W:        r.W,
		H:        r.H,
		FaceW:    r.FaceW,
		FaceH:    r.FaceH,
		Nose:     r.Nose,
		Chin:     r.Chin,
		LeftEar:  r.LeftEar,
		RightEar: r.RightEar,
	}
}
