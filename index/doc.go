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

// Package index persists embedded chunks and answers nearest-neighbor
// queries over them.
//
// The Store is a BadgerDB-backed append log of index entries, written once
// during index construction. Queries do not touch Badger: Load materializes
// the whole index into a FlatIndex, which scans every entry and ranks by
// squared Euclidean distance. Corpora here are tens of thousands of entries,
// small enough that an exact flat scan beats maintaining an approximate
// structure.
package index
