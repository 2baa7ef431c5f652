package elevenlabs

import "github.com/ekisa-team/voicestudio/internal/catalog"

// eleven_v3 accepts only three stability levels.
const (
	stabilityLowCut  = 0.25
	stabilityHighCut = 0.75
)

// QuantizeStability maps v onto the stability levels model accepts. For
// eleven_v3 the value is bucketed to 0.0, 0.5 or 1.0; other models get v
// clamped to [0,1].
func QuantizeStability(model string, v float64) float64 {
	v = clamp01(v)
	if model != catalog.ModelV3 {
		return v
	}

	switch {
	case v <= stabilityLowCut:
		return 0.0
	case v <= stabilityHighCut:
		return 0.5
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
