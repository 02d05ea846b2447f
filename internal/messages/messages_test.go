package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; &quot;c&quot;", Escape(` a <b> & "c" `))
}

func TestRankEmoji(t *testing.T) {
	assert.Equal(t, "🥉", RankEmoji(0))
	assert.Equal(t, "🥉", RankEmoji(99))
	assert.Equal(t, "🥈", RankEmoji(100))
	assert.Equal(t, "🥈", RankEmoji(499))
	assert.Equal(t, "🥇", RankEmoji(500))
	assert.Equal(t, "🥇", RankEmoji(999))
	assert.Equal(t, "🏆", RankEmoji(1000))
}

func TestWelcomeSubstitutesPlaceholders(t *testing.T) {
	got := Welcome("Привет, {name}! Это {chat}.", "Alice", "General")
	assert.Equal(t, "Привет, Alice! Это General.", got)
}

func TestWelcomeEscapesPlatformValues(t *testing.T) {
	got := Welcome("<b>Привет, {name}!</b> Это {chat}.", "Eve <script>", "A & B")
	assert.Equal(t, "<b>Привет, Eve &lt;script&gt;!</b> Это A &amp; B.", got,
		"substituted values are escaped, the operator template is not")
}

func TestWelcomeDefaultTemplate(t *testing.T) {
	got := Welcome("   ", "Bob", "General")
	assert.Equal(t, "👋 Добро пожаловать, Bob!", got)
}
