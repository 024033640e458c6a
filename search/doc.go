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


// Package search retrieves context passages for a question.
//
// The Retriever embeds the query, scans the flat index, and keeps only hits
// whose distance beats a relevance threshold. Retrieval is strictly
// best-effort: a question with no usable context is still answerable, so
// every failure path degrades to an empty hit list rather than an error.
package search
