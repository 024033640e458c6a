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

// Package chunker splits documents into overlapping word-bounded chunks
// suitable for embedding and retrieval.
//
// Two strategies are provided. Split respects sentence boundaries where it
// can, accumulating sentences until the word budget is reached and seeding
// the next chunk with trailing words from the previous one. SplitWords slides
// a fixed word window across the text with a constant overlap, which is
// cheaper and fully predictable but may cut mid-sentence.
//
// Both strategies are deterministic: the same text and configuration always
// produce the same chunks, so chunk identity can be derived from content.
package chunker
