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

// Package remote executes calls against rate-limited HTTP services with
// bounded retries, exponential backoff and error classification.
//
// A Caller wraps one logical request: transient failures (transport errors,
// timeouts, 429 and 5xx responses) are retried with exponential backoff up
// to a configured attempt budget, while auth failures and malformed requests
// fail immediately. Every failure surfaces as a *CallError carrying a Kind
// the caller can branch on; nothing panics across this boundary.
//
// Client is the thin HTTP transport underneath: a POST with the service's
// three-header credential scheme, returning status, body, or a transport
// error.
package remote
