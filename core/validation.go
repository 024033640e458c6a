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

import "fmt"

// ValidateQuestion validates a Question according to domain rules.
//
// Validation rules:
//   - QID must not be empty
//   - Question text must not be empty
//   - Choices must contain at least one entry
func ValidateQuestion(q *Question) error {
	if q == nil {
		return fmt.Errorf("%w: question is nil", ErrInvalidQuestion)
	}

	if q.QID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrEmptyQID)
	}

	if q.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrEmptyText)
	}

	if len(q.Choices) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrNoChoices)
	}

	return nil
}

// ValidateIndexEntry validates an IndexEntry according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Vector must not be empty
//
// NOT validated:
//   - Domain and Source (optional metadata, default to "unknown" on read)
func ValidateIndexEntry(entry *IndexEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidIndexEntry)
	}

	if entry.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexEntry, ErrEmptyText)
	}

	if len(entry.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIndexEntry, ErrEmptyVector)
	}

	return nil
}
