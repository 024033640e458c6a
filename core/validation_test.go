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

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() Question {
	return Question{
		QID:      "q1",
		Question: "What color is the sky?",
		Choices:  []string{"A. blue", "B. green"},
	}
}

func TestValidateQuestion(t *testing.T) {
	q := validQuestion()
	assert.NoError(t, ValidateQuestion(&q))
}

func TestValidateQuestion_Nil(t *testing.T) {
	err := ValidateQuestion(nil)
	assert.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestValidateQuestion_EmptyQID(t *testing.T) {
	q := validQuestion()
	q.QID = ""
	err := ValidateQuestion(&q)
	require.ErrorIs(t, err, ErrInvalidQuestion)
	assert.ErrorIs(t, err, ErrEmptyQID)
}

func TestValidateQuestion_EmptyText(t *testing.T) {
	q := validQuestion()
	q.Question = ""
	err := ValidateQuestion(&q)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestValidateQuestion_NoChoices(t *testing.T) {
	q := validQuestion()
	q.Choices = nil
	err := ValidateQuestion(&q)
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestValidateIndexEntry(t *testing.T) {
	entry := IndexEntry{Text: "a passage", Vector: []float32{0.1, 0.2}}
	assert.NoError(t, ValidateIndexEntry(&entry))
}

func TestValidateIndexEntry_Nil(t *testing.T) {
	err := ValidateIndexEntry(nil)
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)
}

func TestValidateIndexEntry_EmptyText(t *testing.T) {
	entry := IndexEntry{Vector: []float32{0.1}}
	err := ValidateIndexEntry(&entry)
	require.ErrorIs(t, err, ErrInvalidIndexEntry)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestValidateIndexEntry_EmptyVector(t *testing.T) {
	entry := IndexEntry{Text: "a passage"}
	err := ValidateIndexEntry(&entry)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestValidateIndexEntry_MetadataOptional(t *testing.T) {
	entry := IndexEntry{Text: "a passage", Vector: []float32{0.1}}
	assert.NoError(t, ValidateIndexEntry(&entry))
	assert.Empty(t, entry.Domain)
	assert.Empty(t, entry.Source)
}
