package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
)

func TestFormatContext_NumbersSourcesAndInvertsDistance(t *testing.T) {
	got := formatContext([]core.RetrievalHit{
		{Text: "first passage", Distance: 0.25},
		{Text: "second passage", Distance: 1.0},
	})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[Source 1, relevance: 0.75] first passage", lines[0])
	assert.Equal(t, "[Source 2, relevance: 0.00] second passage", lines[1])
}

func TestFormatContext_EmptyHits(t *testing.T) {
	assert.Equal(t, "", formatContext(nil))
}

func TestBuildSystemPrompt(t *testing.T) {
	assert.Equal(t, ungroundedPrompt, buildSystemPrompt(""))

	grounded := buildSystemPrompt("[Source 1, relevance: 0.90] some passage")
	assert.Contains(t, grounded, "THÔNG TIN THAM KHẢO")
	assert.Contains(t, grounded, "some passage")
}

func TestBuildUserPrompt(t *testing.T) {
	q := core.Question{
		QID:      "q1",
		Question: "Thủ đô của Việt Nam là gì?",
		Choices:  []string{"A. Hà Nội", "B. Huế"},
	}

	got := buildUserPrompt(q)
	assert.Equal(t, "Câu hỏi: Thủ đô của Việt Nam là gì?\n\nLựa chọn:\nA. Hà Nội\nB. Huế", got)
}

func TestTruncateContext_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "short", truncateContext("short", 100))
	assert.Equal(t, "anything at all", truncateContext("anything at all", 0))
}

func TestTruncateContext_CutsAtSentenceBoundary(t *testing.T) {
	text := "First sentence here. Second sentence follows. " + strings.Repeat("x", 100)

	got := truncateContext(text, 50)
	assert.Equal(t, "First sentence here. Second sentence follows.", got)
}

func TestTruncateContext_TerminatorPastLimitStillWins(t *testing.T) {
	// The terminator sits past the cap but within the lookahead window.
	text := strings.Repeat("y", 60) + "." + strings.Repeat("z", 200)

	got := truncateContext(text, 50)
	assert.Equal(t, strings.Repeat("y", 60)+".", got)
}

func TestTruncateContext_HardCutLandsOnRuneBoundary(t *testing.T) {
	// Two-byte runes with no terminator force a hard cut; an odd cap would
	// split a rune without the boundary backoff.
	text := strings.Repeat("â", 100)

	got := truncateContext(text, 51)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("â", 25)+"...", got)
}
