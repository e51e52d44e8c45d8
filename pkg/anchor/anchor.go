package anchor

import (
	"errors"
	"fmt"
	"math"

	"ProjectTryOn/pkg/landmark"
)

const (
	earSpanFactor   = 0.6
	earLiftFraction = 0.05
)

var (
	ErrTooFewLandmarks = errors.New("landmark set too small")
	ErrInvalidFrame    = errors.New("invalid frame dimensions")
)

// Point is a pixel position on the frame.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is what the client needs to place jewelry overlays for one frame.
// When Face is false every other field is zero.
type Result struct {
	Face     bool
	W        int
	H        int
	FaceW    float64
	FaceH    float64
	Nose     Point
	Chin     Point
	LeftEar  Point
	RightEar Point
}

type pixel struct {
	x, y int
	z    float64
}

type Deriver struct {
	minLandmarks int
}

func NewDeriver(minLandmarks int) *Deriver {
	if minLandmarks < 1 {
		minLandmarks = 1
	}
	return &Deriver{minLandmarks: minLandmarks}
}

// Derive computes nose, chin and ear anchors from the first detected face.
// Normalized coordinates are scaled to pixels and truncated toward zero.
func (d *Deriver) Derive(width, height int, faces []landmark.Face) (*Result, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, width, height)
	}
	if len(faces) == 0 {
		return &Result{Face: false}, nil
	}

	face := faces[0]
	if len(face) < d.minLandmarks {
		return nil, fmt.Errorf("%w: got %d points, need at least %d", ErrTooFewLandmarks, len(face), d.minLandmarks)
	}

	pts := make([]pixel, len(face))
	for i, p := range face {
		pts[i] = pixel{
			x: int(p.X * float64(width)),
			y: int(p.Y * float64(height)),
			z: p.Z,
		}
	}

	left, right, top, bottom, nose := pts[0], pts[0], pts[0], pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.x < left.x {
			left = p
		}
		if p.x > right.x {
			right = p
		}
		if p.y < top.y {
			top = p
		}
		if p.y > bottom.y {
			bottom = p
		}
		if p.z < nose.z {
			nose = p
		}
	}

	faceW := distance(left, right)
	faceH := distance(top, bottom)
	earY := EarY(top.y, bottom.y, faceH)

	return &Result{
		Face:     true,
		W:        width,
		H:        height,
		FaceW:    faceW,
		FaceH:    faceH,
		Nose:     Point{X: nose.x, Y: nose.y},
		Chin:     Point{X: bottom.x, Y: bottom.y},
		LeftEar:  Point{X: left.x, Y: earY},
		RightEar: Point{X: right.x, Y: earY},
	}, nil
}

// EarY places both ear anchors at 0.6 of the summed top and bottom y, lifted by 5% of
// the face height. Both terms are truncated separately.
func EarY(topY, bottomY int, faceH float64) int {
	return int(float64(bottomY+topY)*earSpanFactor) - int(faceH*earLiftFraction)
}

func distance(a, b pixel) float64 {
	dx := float64(b.x - a.x)
	dy := float64(b.y - a.y)
	return math.Sqrt(dx*dx + dy*dy)
}
