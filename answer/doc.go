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

// Package answer turns a multiple-choice question into a single letter.
//
// The Pipeline retrieves context for the question, builds a grounded or
// ungrounded prompt depending on whether anything relevant was found, asks
// the generator for a one-token completion, and normalizes whatever comes
// back into an answer letter. Model output that cannot be interpreted
// produces the fallback answer rather than an error: in a scored run an
// unanswered question is strictly worse than a guessed one.
package answer
