// Copyright 2026 SEQSENSE, Inc.
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

package s3promote

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadComponentNames reads a JSON array of component names from path.
func LoadComponentNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("component names file: %w", err)
	}
	defer f.Close()
	return ParseComponentNames(f)
}

// ParseComponentNames decodes a JSON array of component names.
func ParseComponentNames(r io.Reader) ([]string, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("invalid component names json: must contain an array of component names: %w", err)
	}
	return names, nil
}

// SplitComponentNames splits a comma-separated list, dropping blank items.
func SplitComponentNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
