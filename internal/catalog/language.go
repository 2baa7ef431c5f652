// Package catalog holds the static language table, the free-text language
// normalizer and the voice list helpers shared by the proxy and the studio.
package catalog

import (
	"regexp"
	"strings"
)

// AutoDetect is the language sentinel that lets the provider detect the language.
const AutoDetect = "auto"

// Language is a supported language option.
type Language struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Sample string `json:"sample,omitempty"`
}

// languages is ordered as it is shown in the language selector.
var languages = []Language{
	{Code: "en", Label: "English", Sample: "Welcome to the voice studio. Type a script, pick a voice, and press play."},
	{Code: "he", Label: "Hebrew", Sample: "ברוכים הבאים לאולפן הקול. כתבו טקסט, בחרו קול ולחצו על נגן."},
	{Code: "es", Label: "Spanish", Sample: "Bienvenido al estudio de voz. Escribe un guion, elige una voz y pulsa reproducir."},
	{Code: "fr", Label: "French", Sample: "Bienvenue dans le studio vocal. Écrivez un texte, choisissez une voix et lancez la lecture."},
	{Code: "de", Label: "German", Sample: "Willkommen im Sprachstudio. Schreibe einen Text, wähle eine Stimme und drücke auf Wiedergabe."},
	{Code: "it", Label: "Italian", Sample: "Benvenuto nello studio vocale. Scrivi un testo, scegli una voce e premi play."},
	{Code: "pt", Label: "Portuguese", Sample: "Bem-vindo ao estúdio de voz. Escreva um roteiro, escolha uma voz e toque para ouvir."},
	{Code: "pl", Label: "Polish", Sample: "Witamy w studiu głosowym. Wpisz tekst, wybierz głos i naciśnij odtwarzanie."},
	{Code: "nl", Label: "Dutch", Sample: "Welkom in de spraakstudio. Typ een tekst, kies een stem en druk op afspelen."},
	{Code: "ru", Label: "Russian", Sample: "Добро пожаловать в голосовую студию. Введите текст, выберите голос и нажмите воспроизведение."},
	{Code: "ar", Label: "Arabic", Sample: "مرحبًا بك في استوديو الصوت. اكتب نصًا واختر صوتًا ثم اضغط تشغيل."},
	{Code: "hi", Label: "Hindi", Sample: "वॉइस स्टूडियो में आपका स्वागत है। स्क्रिप्ट लिखें, आवाज़ चुनें और चलाएँ दबाएँ।"},
	{Code: "ja", Label: "Japanese", Sample: "ボイススタジオへようこそ。台本を入力し、声を選んで再生してください。"},
	{Code: "ko", Label: "Korean", Sample: "보이스 스튜디오에 오신 것을 환영합니다. 대본을 입력하고 목소리를 고른 뒤 재생을 누르세요."},
	{Code: "zh", Label: "Chinese", Sample: "欢迎来到语音工作室。输入文本，选择声音，然后点击播放。"},
	{Code: "tr", Label: "Turkish", Sample: "Ses stüdyosuna hoş geldiniz. Bir metin yazın, bir ses seçin ve oynat'a basın."},
	{Code: "sv", Label: "Swedish", Sample: "Välkommen till röststudion. Skriv ett manus, välj en röst och tryck på spela."},
	{Code: "uk", Label: "Ukrainian", Sample: "Ласкаво просимо до голосової студії. Введіть текст, оберіть голос і натисніть відтворення."},
}

// nameToCode maps lower-cased provider language and accent labels to ISO 639-1 codes.
var nameToCode = map[string]string{
	"english":             "en",
	"american":            "en",
	"british":             "en",
	"australian":          "en",
	"irish":               "en",
	"english (us)":        "en",
	"english (uk)":        "en",
	"hebrew":              "he",
	"hebrew (modern)":     "he",
	"modern hebrew":       "he",
	"israeli":             "he",
	"spanish":             "es",
	"castilian":           "es",
	"latin american":      "es",
	"mexican":             "es",
	"french":              "fr",
	"parisian":            "fr",
	"german":              "de",
	"italian":             "it",
	"portuguese":          "pt",
	"brazilian":           "pt",
	"portuguese (brazil)": "pt",
	"polish":              "pl",
	"dutch":               "nl",
	"russian":             "ru",
	"arabic":              "ar",
	"hindi":               "hi",
	"japanese":            "ja",
	"korean":              "ko",
	"chinese":             "zh",
	"mandarin":            "zh",
	"mandarin chinese":    "zh",
	"turkish":             "tr",
	"swedish":             "sv",
	"ukrainian":           "uk",
}

var isoTag = regexp.MustCompile(`^([a-z]{2})(?:[-_][a-z]{2})?$`)

// Languages returns the supported languages in selector order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Lookup returns the language with the given code.
func Lookup(code string) (Language, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// IsKnown reports whether code is a supported language code.
func IsKnown(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// ResolveLanguageCode maps a free-text provider label such as "Hebrew (Modern)"
// or "en-US" to a two-letter code. It reports false when nothing matches.
func ResolveLanguageCode(label string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return "", false
	}

	if code, ok := nameToCode[key]; ok {
		return code, true
	}

	if m := isoTag.FindStringSubmatch(key); m != nil {
		return m[1], true
	}

	return "", false
}
