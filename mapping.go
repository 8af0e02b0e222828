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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Version placeholders accepted in key templates. {0} is the legacy spelling.
const (
	PlaceholderVersion = "{version}"
	PlaceholderLegacy  = "{0}"
)

// MappingRule associates a component name prefix with a key template.
type MappingRule struct {
	// Key is matched as a prefix of component names.
	Key string `json:"component_key"`
	// KeyTemplate is the object key with a version placeholder,
	// e.g. "/krembo/krembo_core/krembo.{version}.min.js".
	KeyTemplate string `json:"path_format"`
	// VersionFormat selects how the version token is read from the name.
	VersionFormat VersionFormat `json:"version_format,omitempty"`
}

func (r MappingRule) validate() error {
	if r.Key == "" {
		return fmt.Errorf("%w 'component_key'", ErrMissingConfigField)
	}
	if r.KeyTemplate == "" {
		return fmt.Errorf("%w 'path_format' for %q", ErrMissingConfigField, r.Key)
	}
	hasVersion := strings.Contains(r.KeyTemplate, PlaceholderVersion)
	hasLegacy := strings.Contains(r.KeyTemplate, PlaceholderLegacy)
	switch {
	case !hasVersion && !hasLegacy:
		return fmt.Errorf("%w %q for %q: no %s placeholder", ErrInvalidTemplate, r.KeyTemplate, r.Key, PlaceholderVersion)
	case hasVersion && hasLegacy:
		return fmt.Errorf("%w %q for %q: mixes %s and %s", ErrInvalidTemplate, r.KeyTemplate, r.Key, PlaceholderVersion, PlaceholderLegacy)
	}
	switch r.VersionFormat {
	case "", VersionLast, VersionDotted:
	default:
		return fmt.Errorf("%w %q for %q: unknown version_format %q", ErrInvalidTemplate, r.KeyTemplate, r.Key, r.VersionFormat)
	}
	return nil
}

// Mapping is an immutable table of rules keyed by component key.
type Mapping struct {
	rules map[string]MappingRule
	order []string
}

// NewMapping validates the rules and builds a Mapping.
func NewMapping(rules ...MappingRule) (*Mapping, error) {
	m := &Mapping{rules: make(map[string]MappingRule, len(rules))}
	for _, r := range rules {
		if err := m.add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mapping) add(r MappingRule) error {
	if err := r.validate(); err != nil {
		return err
	}
	if _, ok := m.rules[r.Key]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateRule, r.Key)
	}
	m.rules[r.Key] = r
	m.order = append(m.order, r.Key)
	return nil
}

// LoadMapping reads a mapping file. See ParseMapping.
func LoadMapping(path string, logger *zap.Logger) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapping file: %w", err)
	}
	defer f.Close()
	return ParseMapping(f, logger)
}

// ParseMapping decodes a JSON array of rule objects. Entries that are not
// objects (e.g. bare strings from the legacy format) are skipped with a warning.
func ParseMapping(r io.Reader, logger *zap.Logger) (*Mapping, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("invalid mapping json: must contain an array of component configurations: %w", err)
	}

	m := &Mapping{rules: make(map[string]MappingRule, len(entries))}
	for i, raw := range entries {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			logger.Warn("skipping mapping entry without component_key",
				zap.Int("index", i), zap.ByteString("entry", raw))
			continue
		}
		var rule MappingRule
		if err := json.Unmarshal(raw, &rule); err != nil {
			return nil, fmt.Errorf("mapping entry %d: %w", i, err)
		}
		if err := m.add(rule); err != nil {
			return nil, fmt.Errorf("mapping entry %d: %w", i, err)
		}
	}
	return m, nil
}

// Match returns the rule with the longest key that prefixes name.
// Keys are unique, so two matching keys never have the same length.
func (m *Mapping) Match(name string) (MappingRule, error) {
	var (
		best  MappingRule
		found bool
	)
	for _, key := range m.order {
		if !strings.HasPrefix(name, key) {
			continue
		}
		if !found || len(key) > len(best.Key) {
			best = m.rules[key]
			found = true
		}
	}
	if !found {
		return MappingRule{}, fmt.Errorf("%w for component %q", ErrNoMappingFound, name)
	}
	return best, nil
}

// Len returns the number of rules.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Rules returns the rules in load order.
func (m *Mapping) Rules() []MappingRule {
	rules := make([]MappingRule, 0, len(m.order))
	for _, key := range m.order {
		rules = append(rules, m.rules[key])
	}
	return rules
}

// Rule looks up a rule by its exact key.
func (m *Mapping) Rule(key string) (MappingRule, bool) {
	r, ok := m.rules[key]
	return r, ok
}

// Keys returns the rule keys sorted lexically.
func (m *Mapping) Keys() []string {
	keys := append([]string(nil), m.order...)
	sort.Strings(keys)
	return keys
}
