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

package remote

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Credentials is one entry of the API key file: a named credential set for
// one remote service.
type Credentials struct {
	Name          string `json:"llmApiName"`
	Authorization string `json:"authorization"`
	TokenID       string `json:"tokenId"`
	TokenKey      string `json:"tokenKey"`
}

// LoadCredentials reads a JSON key file containing an array of credential
// entries.
func LoadCredentials(path string) ([]Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var creds []Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	return creds, nil
}

// SelectCredentials returns the first entry whose name contains the given
// substring (case-insensitive), e.g. "embed" for the embedding service.
func SelectCredentials(creds []Credentials, nameContains string) (Credentials, error) {
	needle := strings.ToLower(nameContains)
	for _, c := range creds {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, nil
		}
	}
	return Credentials{}, fmt.Errorf("%w: %q", ErrNoCredentials, nameContains)
}
