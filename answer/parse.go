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
	"strings"
	"unicode"
)

// FallbackAnswer is returned when the model output cannot be interpreted.
// Guessing the first option scores better than leaving a blank.
const FallbackAnswer = "A"

// DigitPolicy decides how a completion that starts with a digit maps to an
// answer letter. Models occasionally answer "2" instead of "B"; whether the
// model counts options from zero or one cannot be recovered from the output,
// so the mapping is a configuration choice.
type DigitPolicy int

const (
	// DigitOffset maps digit d to the letter at alphabet position d:
	// "1" becomes "B", "2" becomes "C". "0" is treated as unparseable.
	DigitOffset DigitPolicy = iota

	// DigitOrdinal maps digit d to the d-th option: "1" becomes "A",
	// "2" becomes "B". "0" is treated as unparseable.
	DigitOrdinal
)

// ParseAnswer normalizes a raw completion into an answer letter. The first
// character decides: a letter is uppercased, a digit is mapped through the
// policy, anything else fails. The boolean reports whether the output was
// usable.
func ParseAnswer(raw string, policy DigitPolicy) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	first := []rune(trimmed)[0]
	switch {
	case unicode.IsLetter(first):
		return string(unicode.ToUpper(first)), true

	case first >= '1' && first <= '9':
		d := int(first - '0')
		if policy == DigitOrdinal {
			d--
		}
		if d > 25 {
			return "", false
		}
		return string(rune('A' + d)), true

	default:
		return "", false
	}
}
