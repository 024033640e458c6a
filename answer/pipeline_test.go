// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/embed"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/remote"
	"github.com/poiesic/answerit/search"
)

func testQuestion() core.Question {
	return core.Question{
		QID:      "q1",
		Question: "what is gravity",
		Choices:  []string{"A. a force", "B. a color"},
	}
}

func newGroundedRetriever(t *testing.T, entries ...core.IndexEntry) *search.Retriever {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0, 0}, nil
	}

	client, err := embed.NewClient(embedder)
	require.NoError(t, err)
	t.Cleanup(client.Release)

	retriever, err := search.NewRetriever(index.NewFlatIndex(entries...), client)
	require.NoError(t, err)
	return retriever
}

func TestAnswer_UngroundedWithoutRetriever(t *testing.T) {
	generator := mock.NewMockGenerator()
	var seenSystem, seenUser string
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		seenSystem, seenUser = system, user
		return "b", nil
	}

	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	result, err := pipeline.Answer(context.Background(), testQuestion())
	require.NoError(t, err)

	assert.Equal(t, "B", result.Answer)
	assert.False(t, result.Fallback)
	assert.False(t, result.Grounded)
	assert.Empty(t, result.Hits)
	assert.Equal(t, ungroundedPrompt, seenSystem)
	assert.Contains(t, seenUser, "what is gravity")
	assert.Contains(t, seenUser, "A. a force")
}

func TestAnswer_GroundedPromptCarriesRetrievedPassages(t *testing.T) {
	retriever := newGroundedRetriever(t, core.IndexEntry{
		Text:   "gravity is a force of attraction",
		Domain: "science",
		Source: "doc",
		Vector: []float32{0, 0},
	})

	generator := mock.NewMockGenerator()
	var seenSystem string
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		seenSystem = system
		return "A", nil
	}

	pipeline, err := NewPipeline(generator, WithRetriever(retriever))
	require.NoError(t, err)

	result, err := pipeline.Answer(context.Background(), testQuestion())
	require.NoError(t, err)

	assert.Equal(t, "A", result.Answer)
	assert.True(t, result.Grounded)
	require.Len(t, result.Hits, 1)
	assert.Contains(t, seenSystem, "THÔNG TIN THAM KHẢO")
	assert.Contains(t, seenSystem, "[Source 1")
	assert.Contains(t, seenSystem, "gravity is a force of attraction")
}

func TestAnswer_UnparseableCompletionFallsBack(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "không rõ", nil
	}

	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	result, err := pipeline.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, result.Answer)
	assert.True(t, result.Fallback)
}

func TestAnswer_GenerateFailureFallsBack(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("upstream hiccup")
	}

	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	result, err := pipeline.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, result.Answer)
	assert.True(t, result.Fallback)
}

func TestAnswer_AuthFailurePropagates(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", &remote.CallError{Kind: remote.KindAuth, Status: 401}
	}

	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	_, err = pipeline.Answer(context.Background(), testQuestion())
	require.Error(t, err)
	assert.Equal(t, remote.KindAuth, remote.KindOf(err))
}

func TestAnswer_CanceledContextPropagates(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", ctx.Err()
	}

	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = pipeline.Answer(ctx, testQuestion())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnswer_InvalidQuestionRejected(t *testing.T) {
	generator := mock.NewMockGenerator()
	pipeline, err := NewPipeline(generator)
	require.NoError(t, err)

	_, err = pipeline.Answer(context.Background(), core.Question{Question: "no qid", Choices: []string{"A"}})
	assert.ErrorIs(t, err, core.ErrEmptyQID)
	assert.Zero(t, generator.CallCount())
}

func TestAnswer_DigitPolicyOption(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "2", nil
	}

	offset, err := NewPipeline(generator)
	require.NoError(t, err)
	result, err := offset.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	assert.Equal(t, "C", result.Answer)

	ordinal, err := NewPipeline(generator, WithDigitPolicy(DigitOrdinal))
	require.NoError(t, err)
	result, err = ordinal.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	assert.Equal(t, "B", result.Answer)
}

func TestAnswer_MaxContextCharsCapsPrompt(t *testing.T) {
	retriever := newGroundedRetriever(t, core.IndexEntry{
		Text:   strings.Repeat("một đoạn văn dài ", 50),
		Domain: "science",
		Source: "doc",
		Vector: []float32{0, 0},
	})

	generator := mock.NewMockGenerator()
	var seenSystem string
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		seenSystem = system
		return "A", nil
	}

	uncapped, err := NewPipeline(generator, WithRetriever(retriever), WithMaxContextChars(0))
	require.NoError(t, err)
	_, err = uncapped.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	uncappedLen := len(seenSystem)

	capped, err := NewPipeline(generator, WithRetriever(retriever), WithMaxContextChars(120))
	require.NoError(t, err)

	result, err := capped.Answer(context.Background(), testQuestion())
	require.NoError(t, err)
	assert.True(t, result.Grounded)
	assert.Less(t, len(seenSystem), uncappedLen)
}

func TestNewPipeline_RequiresGenerator(t *testing.T) {
	_, err := NewPipeline(nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}
