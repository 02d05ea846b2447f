package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLanguageCode(t *testing.T) {
	assert.Equal(t, EN, FromLanguageCode("en"))
	assert.Equal(t, EN, FromLanguageCode("en-US"))
	assert.Equal(t, RU, FromLanguageCode("ru"))
	assert.Equal(t, RU, FromLanguageCode("de"), "unsupported languages fall back to Russian")
	assert.Equal(t, RU, FromLanguageCode(""))
}

func TestParse(t *testing.T) {
	assert.Equal(t, EN, Parse("EN"))
	assert.Equal(t, RU, Parse("ru"))
	assert.Equal(t, RU, Parse("unknown"))
}
