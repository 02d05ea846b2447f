package i18n

import "strings"

type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// FromLanguageCode maps a platform language code to a supported language.
// Russian is the default, matching the bot's primary audience.
func FromLanguageCode(code string) Lang {
	code = strings.ToLower(strings.TrimSpace(code))
	if strings.HasPrefix(code, "en") {
		return EN
	}
	return RU
}

func Parse(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return EN
	case "ru":
		return RU
	default:
		return RU
	}
}
