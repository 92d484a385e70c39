package shadowgen

import (
	"fmt"
	"image"
)

// Insets are nine-slice border distances, in pixels, from the cropped
// image's edges to the base shape's edges.
type Insets struct {
	Left, Top, Right, Bottom float64
}

// insetTolerance absorbs floating-point noise around zero.
const insetTolerance = 1e-9

// ComputeInsets places baseDeviceRect (device space) inside crop (canvas
// pixel space, canvas pixel (0, 0) at canvasOrigin in device space) and
// returns the four distances. It fails with ErrInvariantViolation if the
// base shape sticks out of the crop.
func ComputeInsets(baseDeviceRect Rect, canvasOrigin image.Point, crop image.Rectangle) (Insets, error) {
	r := baseDeviceRect.
		Translate(-float64(canvasOrigin.X), -float64(canvasOrigin.Y)).
		Translate(-float64(crop.Min.X), -float64(crop.Min.Y))

	in := Insets{
		Left:   r.X,
		Top:    r.Y,
		Right:  float64(crop.Dx()) - r.Right(),
		Bottom: float64(crop.Dy()) - r.Bottom(),
	}
	for _, v := range []*float64{&in.Left, &in.Top, &in.Right, &in.Bottom} {
		if *v < 0 && *v >= -insetTolerance {
			*v = 0
		}
	}
	if in.Left < 0 || in.Top < 0 || in.Right < 0 || in.Bottom < 0 {
		return in, stageErr(StageInsets, fmt.Errorf("%w: negative insets %+v", ErrInvariantViolation, in))
	}
	return in, nil
}
