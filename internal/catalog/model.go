package catalog

// Provider model identifiers.
const (
	ModelV3             = "eleven_v3"
	ModelMultilingualV2 = "eleven_multilingual_v2"
	ModelFlashV25       = "eleven_flash_v2_5"
	ModelTurboV25       = "eleven_turbo_v2_5"
)

// DefaultModel is used when neither the caller nor the configuration names one.
const DefaultModel = ModelFlashV25

const (
	// MaxTextLengthV3 is the per-request character limit of eleven_v3.
	MaxTextLengthV3 = 3000

	// MaxTextLength is the per-request character limit of every other model.
	MaxTextLength = 30000
)

// forcedModels lists languages that only one model can speak.
var forcedModels = map[string]string{
	"he": ModelV3,
}

// SelectModel picks the model for a request. A language bound to a specific
// model always gets that model; otherwise the requested model wins over the
// fallback, and DefaultModel is used when both are empty.
func SelectModel(language, requested, fallback string) string {
	if forced, ok := forcedModels[language]; ok {
		return forced
	}
	if requested != "" {
		return requested
	}
	if fallback != "" {
		return fallback
	}
	return DefaultModel
}

// TextLimit returns the maximum script length, in characters, accepted by model.
func TextLimit(model string) int {
	if model == ModelV3 {
		return MaxTextLengthV3
	}
	return MaxTextLength
}

// SupportsLanguageCode reports whether model accepts an explicit language_code.
func SupportsLanguageCode(model string) bool {
	switch model {
	case ModelV3, ModelFlashV25, ModelTurboV25:
		return true
	default:
		return false
	}
}
