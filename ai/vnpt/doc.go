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

// Package vnpt implements the ai interfaces against the VNPT AI gateway.
//
// The gateway is OpenAI-shaped on the wire but authenticates with three
// headers (Authorization, Token-id, Token-key) issued per model, so the
// stock OpenAI client libraries cannot talk to it. Requests go through
// remote.Client for transport and remote.Caller for retry classification.
//
// Responses are decoded into typed wire structs at this boundary; nothing
// above this package sees raw JSON.
package vnpt
