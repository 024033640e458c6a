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

// Package corpus reads and writes the JSONL files the pipeline exchanges
// between stages: source documents in, chunk records out.
//
// Readers are lenient about malformed lines. Corpus files are produced in
// long batch runs and a single bad line should cost one record, not the
// whole file; skipped lines are counted and logged, never fatal.
package corpus
