package extractor

import "github.com/pemistahl/lingua-go"

// newDetector builds a language detector covering common feed languages.
func newDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.German, lingua.French, lingua.Spanish,
			lingua.Chinese, lingua.Russian, lingua.Italian, lingua.Portuguese,
			lingua.Dutch, lingua.Swedish, lingua.Danish, lingua.Finnish,
			lingua.Polish, lingua.Czech, lingua.Hungarian, lingua.Romanian,
		).
		Build()
}

// detectLanguage returns the ISO 639-1 code for text, defaulting to English.
func detectLanguage(detector lingua.LanguageDetector, text string) string {
	if text == "" {
		return "en"
	}

	language, exists := detector.DetectLanguageOf(text)
	if !exists {
		return "en"
	}

	switch language {
	case lingua.English:
		return "en"
	case lingua.German:
		return "de"
	case lingua.French:
		return "fr"
	case lingua.Spanish:
		return "es"
	case lingua.Chinese:
		return "zh"
	case lingua.Russian:
		return "ru"
	case lingua.Italian:
		return "it"
	case lingua.Portuguese:
		return "pt"
	case lingua.Dutch:
		return "nl"
	case lingua.Swedish:
		return "sv"
	case lingua.Danish:
		return "da"
	case lingua.Finnish:
		return "fi"
	case lingua.Polish:
		return "pl"
	case lingua.Czech:
		return "cs"
	case lingua.Hungarian:
		return "hu"
	case lingua.Romanian:
		return "ro"
	default:
		return "en"
	}
}
