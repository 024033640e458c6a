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

package run

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/answerit/core"
)

// LoadQuestions reads a question set from a JSON array file. Every entry
// must carry a qid, the question text, and at least one choice; a single
// bad entry fails the load since answering an incomplete set would silently
// produce a short submission.
func LoadQuestions(path string) ([]core.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file: %w", err)
	}

	var questions []core.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(questions))
	for i := range questions {
		if err := core.ValidateQuestion(&questions[i]); err != nil {
			return nil, fmt.Errorf("question %d in %s: %w", i, path, err)
		}
		if _, dup := seen[questions[i].QID]; dup {
			return nil, fmt.Errorf("question %d in %s: duplicate qid %q", i, path, questions[i].QID)
		}
		seen[questions[i].QID] = struct{}{}
	}

	return questions, nil
}
