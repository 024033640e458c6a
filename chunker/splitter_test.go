package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numberedWords returns n distinct words so window positions are checkable.
func numberedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Small.Validate())
	assert.NoError(t, Medium.Validate())
	assert.NoError(t, Large.Validate())

	err := Config{ChunkSize: 0, Overlap: 0}.Validate()
	assert.ErrorIs(t, err, ErrInvalidChunkSize)

	err = Config{ChunkSize: 10, Overlap: 10}.Validate()
	assert.ErrorIs(t, err, ErrInvalidOverlap)

	err = Config{ChunkSize: 10, Overlap: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestNewSplitter_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSplitter(Config{ChunkSize: -1})
	require.Error(t, err)
}

func TestSplitWords_WindowPositions(t *testing.T) {
	s, err := NewSplitter(Config{ID: "small", ChunkSize: 256, Overlap: 32})
	require.NoError(t, err)

	words := numberedWords(300)
	chunks := s.SplitWords(strings.Join(words, " "))
	require.Len(t, chunks, 2)

	assert.Equal(t, strings.Join(words[0:256], " "), chunks[0])
	assert.Equal(t, strings.Join(words[224:300], " "), chunks[1])
}

func TestSplitWords_ExactFitProducesSingleChunk(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	words := numberedWords(50)
	chunks := s.SplitWords(strings.Join(words, " "))
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Join(words, " "), chunks[0])
}

func TestSplitWords_EmptyText(t *testing.T) {
	s, err := NewSplitter(Small)
	require.NoError(t, err)

	assert.Nil(t, s.SplitWords(""))
	assert.Nil(t, s.SplitWords("   \n\t  "))
}

func TestSplit_ShortChunksDropped(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 50, Overlap: 5})
	require.NoError(t, err)

	assert.Nil(t, s.Split("Too short to keep."))
	assert.Nil(t, s.SplitWords("also too short"))
}

func TestSplit_MinWordsOverride(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 50, Overlap: 5, MinWords: 3})
	require.NoError(t, err)

	chunks := s.Split("Short but kept this time.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Short but kept this time", chunks[0])
}

func TestSplit_AccumulatesSentencesUnderBudget(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 100, Overlap: 10})
	require.NoError(t, err)

	text := "The first sentence has exactly eight words here. " +
		"The second sentence also has exactly eight words. " +
		"And the third sentence rounds out the text."
	chunks := s.Split(text)
	require.Len(t, chunks, 1, "three short sentences fit a single chunk")
	assert.NotContains(t, chunks[0], ".", "terminal punctuation is stripped")
}

func TestSplit_OverlapSeedsNextChunk(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 20, Overlap: 5, MinWords: 1})
	require.NoError(t, err)

	// Three 10-word sentences: the first two fill a chunk, the third starts
	// a new one seeded with the previous chunk's last five words.
	var sentences []string
	words := numberedWords(30)
	for i := 0; i < 3; i++ {
		sentences = append(sentences, strings.Join(words[i*10:(i+1)*10], " ")+".")
	}
	chunks := s.Split(strings.Join(sentences, " "))
	require.Len(t, chunks, 2)

	assert.Equal(t, strings.Join(words[0:20], " "), chunks[0])
	assert.Equal(t, strings.Join(words[15:30], " "), chunks[1])
}

func TestSplit_OversizedSentenceHardSplit(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 20, Overlap: 4, MinWords: 1})
	require.NoError(t, err)

	words := numberedWords(40)
	chunks := s.Split(strings.Join(words, " ") + ".")
	require.Len(t, chunks, 3)

	// Step is 16, so windows start at 0, 16, 32.
	assert.Equal(t, strings.Join(words[0:20], " "), chunks[0])
	assert.Equal(t, strings.Join(words[16:36], " "), chunks[1])
	assert.Equal(t, strings.Join(words[32:40], " "), chunks[2])
}

func TestSplit_Deterministic(t *testing.T) {
	s, err := NewSplitter(Medium)
	require.NoError(t, err)

	text := strings.Join(numberedWords(2000), " ")
	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)

	firstW := s.SplitWords(text)
	secondW := s.SplitWords(text)
	assert.Equal(t, firstW, secondW)
}

func TestSplit_QuestionAndExclamationTerminators(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 100, Overlap: 0, MinWords: 1})
	require.NoError(t, err)

	chunks := s.Split("Is this a sentence? Yes it is! And so is this...")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Is this a sentence Yes it is And so is this", chunks[0])
}

func TestNamedConfigs(t *testing.T) {
	assert.Equal(t, 256, Small.ChunkSize)
	assert.Equal(t, 32, Small.Overlap)
	assert.Equal(t, 512, Medium.ChunkSize)
	assert.Equal(t, 64, Medium.Overlap)
	assert.Equal(t, 1024, Large.ChunkSize)
	assert.Equal(t, 128, Large.Overlap)
}

func TestSplit_WordsMethodIgnoresSentences(t *testing.T) {
	cfg := Config{ChunkSize: 20, Overlap: 5, MinWords: 1, Method: MethodWords}
	s, err := NewSplitter(cfg)
	require.NoError(t, err)

	text := strings.Join(numberedWords(30), " ")
	viaSplit := s.Split(text)
	viaWords := s.SplitWords(text)
	assert.Equal(t, viaWords, viaSplit)
	require.Len(t, viaSplit, 2)
}

func TestConfig_RejectsUnknownMethod(t *testing.T) {
	_, err := NewSplitter(Config{ChunkSize: 20, Overlap: 5, Method: "paragraph"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}
