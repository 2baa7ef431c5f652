package catalog

// Voice is a provider voice as shown to the studio.
type Voice struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
	Language     string `json:"language,omitempty"`
	Accent       string `json:"accent,omitempty"`
	PreviewURL   string `json:"previewUrl,omitempty"`
}

// DedupeVoices drops voices whose id was already seen, keeping the first
// occurrence and the original order.
func DedupeVoices(voices []Voice) []Voice {
	seen := make(map[string]struct{}, len(voices))
	out := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}

// VoicesForLanguage returns the voices tagged with code. When none are, or
// code is empty or the auto-detect sentinel, every voice is returned.
func VoicesForLanguage(voices []Voice, code string) []Voice {
	if code == "" || code == AutoDetect {
		return voices
	}

	var out []Voice
	for _, v := range voices {
		if v.LanguageCode == code {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return voices
	}
	return out
}
