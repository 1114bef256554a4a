package langs

import "strings"

// Default is the language assumed when a user never picked one.
const Default = "en"

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Supported is the fixed table of languages the translator handles.
// Codes outside this table are rejected at the boundary.
var Supported = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi (हिंदी)"},
	{Code: "es", Name: "Spanish (Español)"},
	{Code: "fr", Name: "French (Français)"},
	{Code: "de", Name: "German (Deutsch)"},
	{Code: "zh", Name: "Chinese (中文)"},
	{Code: "ja", Name: "Japanese (日本語)"},
	{Code: "ko", Name: "Korean (한국어)"},
	{Code: "ar", Name: "Arabic (العربية)"},
	{Code: "pt", Name: "Portuguese (Português)"},
	{Code: "ru", Name: "Russian (Русский)"},
	{Code: "bn", Name: "Bengali (বাংলা)"},
	{Code: "ta", Name: "Tamil (தமிழ்)"},
	{Code: "te", Name: "Telugu (తెలుగు)"},
	{Code: "mr", Name: "Marathi (मराठी)"},
	{Code: "gu", Name: "Gujarati (ગુજરાતી)"},
	{Code: "kn", Name: "Kannada (ಕನ್ನಡ)"},
	{Code: "ml", Name: "Malayalam (മലയാളം)"},
	{Code: "pa", Name: "Punjabi (ਪੰਜਾਬੀ)"},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(Supported))
	for _, l := range Supported {
		m[l.Code] = l
	}
	return m
}()

// Normalize lowercases and trims a language code.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsSupported reports whether the (normalized) code is in the table.
func IsSupported(code string) bool {
	_, ok := byCode[Normalize(code)]
	return ok
}

// OrDefault returns the normalized code, or Default when the code is
// empty or unknown.
func OrDefault(code string) string {
	n := Normalize(code)
	if _, ok := byCode[n]; !ok {
		return Default
	}
	return n
}
