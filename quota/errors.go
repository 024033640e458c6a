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

package quota

import "errors"

var (
	// ErrExhausted is returned when a hard window is at capacity.
	// There is no recovery path within the run; callers should stop cleanly.
	ErrExhausted = errors.New("hard quota window exhausted")

	// ErrDenied is returned by TryReserve when a call cannot be granted
	// right now but waiting would eventually succeed.
	ErrDenied = errors.New("quota denied")
)
