package shadowgen

// Calibration holds the correction factors that map user-facing shadow
// parameters onto the blur primitive. They were tuned against one specific
// blur implementation; a different Blur may need different values.
type Calibration struct {
	// AlphaGain amplifies the nominal opacity to offset the blur's
	// under-saturation.
	AlphaGain float64
	// BlurGain and BlurMultiplier convert a visual blur strength into the
	// blur primitive's radius parameter.
	BlurGain       float64
	BlurMultiplier float64
}

// DefaultCalibration returns the factors the presets were designed with.
func DefaultCalibration() Calibration {
	return Calibration{
		AlphaGain:      1.414,
		BlurGain:       1.414,
		BlurMultiplier: 2,
	}
}

// orDefault replaces an all-zero Calibration with DefaultCalibration, so
// three zero factors cannot be expressed.
func (c Calibration) orDefault() Calibration {
	if c == (Calibration{}) {
		return DefaultCalibration()
	}
	return c
}

// Validate reports ErrInvalidDimension if any factor is negative or not finite.
func (c Calibration) Validate() error {
	for _, v := range []float64{c.AlphaGain, c.BlurGain, c.BlurMultiplier} {
		if !finite(v) || v < 0 {
			return invalidf("calibration factor %v must be a non-negative number", v)
		}
	}
	return nil
}
