// Package i18n translates the user interface of the HTML pages.
package i18n

import (
	"golang.org/x/text/language"
)

// Language represents a supported language.
type Language string

const (
	// English is the English language.
	English Language = "en"
	// Finnish is the Finnish language.
	Finnish Language = "fi"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = English

// translations maps language codes to translation keys and their values.
//
//nolint:gochecknoglobals // read-only lookup table
var translations = map[Language]map[string]string{
	English: {
		"app.name":                "Cyclefit",
		"nav.exercises":           "Exercises",
		"phase.menstrual":         "Menstrual",
		"phase.follicular":        "Follicular",
		"phase.ovulation":         "Ovulation",
		"phase.luteal":            "Luteal",
		"category.strength":       "Strength",
		"category.cardio":         "Cardio",
		"category.flexibility":    "Flexibility",
		"category.recovery":       "Recovery",
		"exercises.title":         "Exercises",
		"exercises.phase_title":   "Exercises for the %s phase",
		"exercises.empty":         "No exercises match.",
		"exercises.difficulty":    "difficulty",
		"exercise.category":       "Category",
		"exercise.difficulty":     "Difficulty",
		"exercise.predicted":      "Predicted difficulty",
		"exercise.target_muscles": "Target muscles",
		"exercise.equipment":      "Equipment",
		"exercise.form_tips":      "Form tips",
		"exercise.phase_advice":   "Training by phase",
		"notfound.title":          "Page Not Found",
		"notfound.message":        "The page you are looking for does not exist.",
		"error.title":             "Something went wrong",
		"error.message":           "The error has been logged. Please try again later.",
		"action.home":             "Go Home",
		"action.back":             "Go Back",
		"language.picker.label":   "Language",
		"language.picker.submit":  "Change",
		"language.name.en":        "English",
		"language.name.fi":        "Suomi",
	},
	Finnish: {
		"app.name":                "Cyclefit",
		"nav.exercises":           "Liikkeet",
		"phase.menstrual":         "Kuukautiset",
		"phase.follicular":        "Follikulaarivaihe",
		"phase.ovulation":         "Ovulaatio",
		"phase.luteal":            "Luteaalivaihe",
		"category.strength":       "Voima",
		"category.cardio":         "Kestävyys",
		"category.flexibility":    "Liikkuvuus",
		"category.recovery":       "Palautuminen",
		"exercises.title":         "Liikkeet",
		"exercises.phase_title":   "Liikkeet vaiheeseen: %s",
		"exercises.empty":         "Ei sopivia liikkeitä.",
		"exercises.difficulty":    "vaikeus",
		"exercise.category":       "Kategoria",
		"exercise.difficulty":     "Vaikeus",
		"exercise.predicted":      "Arvioitu vaikeus",
		"exercise.target_muscles": "Kohdelihakset",
		"exercise.equipment":      "Välineet",
		"exercise.form_tips":      "Tekniikkavinkit",
		"exercise.phase_advice":   "Harjoittelu kierron vaiheittain",
		"notfound.title":          "Sivua ei löytynyt",
		"notfound.message":        "Etsimääsi sivua ei ole olemassa.",
		"error.title":             "Jokin meni pieleen",
		"error.message":           "Virhe on kirjattu. Yritä myöhemmin uudelleen.",
		"action.home":             "Etusivulle",
		"action.back":             "Takaisin",
		"language.picker.label":   "Kieli",
		"language.picker.submit":  "Vaihda",
		"language.name.en":        "English",
		"language.name.fi":        "Suomi",
	},
}

//nolint:gochecknoglobals // matchers are safe for concurrent use
var matcher = language.NewMatcher([]language.Tag{language.English, language.Finnish})

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{English, Finnish}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// Negotiate picks the supported language that best matches an Accept-Language header value.
// Unparseable or unmatched headers get DefaultLanguage.
func Negotiate(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages()[index]
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}
	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation
		}
	}
	return key
}
