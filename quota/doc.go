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

// Package quota enforces rolling-window call budgets and minimum call spacing
// for remote services with hard request quotas.
//
// A Governor tracks granted calls across one or more named windows (per
// minute, hour, day, month) plus an optional minimum interval between calls.
// All checks and grants happen inside a single critical section per Governor;
// WaitAndReserve deliberately sleeps while holding that section so that
// concurrent callers are fully serialized and the remote service never sees a
// burst. Soft windows recover as old grants age out; a full hard window
// terminates the wait with ErrExhausted instead of blocking.
package quota
