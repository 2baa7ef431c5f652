// Package synthesis turns untyped synthesis payloads into validated requests.
package synthesis

// Request is a validated speech synthesis request.
type Request struct {
	Text                     string   `json:"text"`
	VoiceID                  string   `json:"voiceId"`
	Language                 string   `json:"language,omitempty"`
	Stability                *float64 `json:"stability,omitempty"`
	SimilarityBoost          *float64 `json:"similarityBoost,omitempty"`
	StyleExaggeration        *float64 `json:"styleExaggeration,omitempty"`
	OptimizeStreamingLatency *int     `json:"optimizeStreamingLatency,omitempty"`
	ModelID                  string   `json:"modelId,omitempty"`
}

// Float returns a pointer to v, for building requests in code.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for building requests in code.
func Int(v int) *int {
	return &v
}
