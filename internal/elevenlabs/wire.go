package elevenlabs

import (
	"encoding/json"
	"strings"

	"github.com/ekisa-team/voicestudio/internal/catalog"
)

// Provider wire shapes. Everything snake_case stays in this file.

type wireVoicesResponse struct {
	Voices []wireVoice `json:"voices"`
}

type wireVoice struct {
	VoiceID           string                 `json:"voice_id"`
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	PreviewURL        string                 `json:"preview_url"`
	Labels            map[string]string      `json:"labels"`
	VerifiedLanguages []wireVerifiedLanguage `json:"verified_languages"`
}

type wireVerifiedLanguage struct {
	Language   string `json:"language"`
	ModelID    string `json:"model_id"`
	Accent     string `json:"accent"`
	Locale     string `json:"locale"`
	PreviewURL string `json:"preview_url"`
}

type wireSpeechRequest struct {
	Text          string            `json:"text"`
	ModelID       string            `json:"model_id"`
	LanguageCode  string            `json:"language_code,omitempty"`
	VoiceSettings wireVoiceSettings `json:"voice_settings"`
}

type wireVoiceSettings struct {
	Stability       float64  `json:"stability"`
	SimilarityBoost float64  `json:"similarity_boost"`
	Style           *float64 `json:"style,omitempty"`
	UseSpeakerBoost bool     `json:"use_speaker_boost"`
}

type wireErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type wireErrorDetail struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// toVoice maps a provider voice onto the studio's Voice.
func toVoice(w wireVoice) catalog.Voice {
	v := catalog.Voice{
		ID:          w.VoiceID,
		Name:        w.Name,
		Description: w.Description,
		Language:    w.Labels["language"],
		Accent:      w.Labels["accent"],
		PreviewURL:  w.PreviewURL,
	}

	if v.Description == "" {
		v.Description = w.Labels["description"]
	}

	if len(w.VerifiedLanguages) > 0 {
		first := w.VerifiedLanguages[0]
		if v.Language == "" {
			v.Language = first.Language
		}
		if v.Accent == "" {
			v.Accent = first.Accent
		}
		if v.PreviewURL == "" {
			v.PreviewURL = first.PreviewURL
		}
	}

	for _, candidate := range languageCandidates(w) {
		if code, ok := catalog.ResolveLanguageCode(candidate); ok {
			v.LanguageCode = code
			break
		}
	}

	return v
}

func languageCandidates(w wireVoice) []string {
	c := []string{w.Labels["language"]}
	for _, vl := range w.VerifiedLanguages {
		c = append(c, vl.Language, vl.Locale)
	}
	return append(c, w.Labels["accent"])
}

// errorDetail extracts a readable detail from a provider error body. It
// returns an empty string when the body is not JSON.
func errorDetail(body []byte) string {
	var eb wireErrorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var d wireErrorDetail
	if err := json.Unmarshal(eb.Detail, &d); err == nil && (d.Status != "" || d.Message != "") {
		return strings.TrimSpace(strings.Join(nonEmpty(d.Status, d.Message), ": "))
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	return string(eb.Detail)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
