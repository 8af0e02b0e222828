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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mappingJSON = `[
  {"component_key": "Component-A-V1", "path_format": "/components/component-a/component-a.{version}.min.js"},
  {"component_key": "Component-B", "path_format": "dev/components/component-b/component-b.{0}.min.js"},
  "Component-Legacy",
  {"component_key": "KP-Phaser", "path_format": "/libs/phaser/phaser.{version}.min.js", "version_format": "dotted"}
]`

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping(strings.NewReader(mappingJSON), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	rule, ok := m.Rule("Component-A-V1")
	require.True(t, ok)
	assert.Equal(t, "/components/component-a/component-a.{version}.min.js", rule.KeyTemplate)

	rule, ok = m.Rule("KP-Phaser")
	require.True(t, ok)
	assert.Equal(t, VersionDotted, rule.VersionFormat)

	_, ok = m.Rule("Component-Legacy")
	assert.False(t, ok, "bare string entries must be skipped")

	var order []string
	for _, r := range m.Rules() {
		order = append(order, r.Key)
	}
	assert.Equal(t, []string{"Component-A-V1", "Component-B", "KP-Phaser"}, order)
}

func TestParseMapping_Errors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{
			name:    "MissingComponentKey",
			json:    `[{"path_format": "a.{version}.js"}]`,
			wantErr: ErrMissingConfigField,
		},
		{
			name:    "MissingPathFormat",
			json:    `[{"component_key": "A"}]`,
			wantErr: ErrMissingConfigField,
		},
		{
			name:    "DuplicateKey",
			json:    `[{"component_key": "A", "path_format": "a.{version}.js"}, {"component_key": "A", "path_format": "b.{version}.js"}]`,
			wantErr: ErrDuplicateRule,
		},
		{
			name:    "NoPlaceholder",
			json:    `[{"component_key": "A", "path_format": "a.js"}]`,
			wantErr: ErrInvalidTemplate,
		},
		{
			name:    "MixedPlaceholders",
			json:    `[{"component_key": "A", "path_format": "a.{0}.{version}.js"}]`,
			wantErr: ErrInvalidTemplate,
		},
		{
			name:    "UnknownVersionFormat",
			json:    `[{"component_key": "A", "path_format": "a.{version}.js", "version_format": "calver"}]`,
			wantErr: ErrInvalidTemplate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping(strings.NewReader(tt.json), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("NotAnArray", func(t *testing.T) {
		_, err := ParseMapping(strings.NewReader(`{"component_key": "A"}`), nil)
		assert.Error(t, err)
	})
	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := ParseMapping(strings.NewReader(`[{`), nil)
		assert.Error(t, err)
	})
}

func TestLoadMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(mappingJSON), 0o644))

	m, err := LoadMapping(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	_, err = LoadMapping(filepath.Join(dir, "missing.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapping_Match(t *testing.T) {
	m := mustMapping(t,
		MappingRule{Key: "Component-A", KeyTemplate: "a.{version}.js"},
		MappingRule{Key: "Component-A-V1", KeyTemplate: "a1.{version}.js"},
		MappingRule{Key: "Component-B", KeyTemplate: "b.{version}.js"},
		MappingRule{Key: "Component-B-Wrapper", KeyTemplate: "bw.{version}.js"},
	)

	tests := []struct {
		name string
		want string
	}{
		{"Component-A-V1-19", "Component-A-V1"},
		{"Component-A-V2-3", "Component-A"},
		{"Component-B-227", "Component-B"},
		{"Component-B-Wrapper-202", "Component-B-Wrapper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := m.Match(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Key)
		})
	}

	t.Run("LongestMatch", func(t *testing.T) {
		m := mustMapping(t,
			MappingRule{Key: "A", KeyTemplate: "a.{version}.js"},
			MappingRule{Key: "A-V1", KeyTemplate: "a1.{version}.js"},
		)
		rule, err := m.Match("A-V1-19")
		require.NoError(t, err)
		assert.Equal(t, "A-V1", rule.Key)
	})
	t.Run("NoMatch", func(t *testing.T) {
		_, err := m.Match("Component-Z-1")
		assert.ErrorIs(t, err, ErrNoMappingFound)
	})
}

func TestMapping_Keys(t *testing.T) {
	m := mustMapping(t,
		MappingRule{Key: "Zeta", KeyTemplate: "z.{version}.js"},
		MappingRule{Key: "Alpha", KeyTemplate: "a.{version}.js"},
		MappingRule{Key: "Mid", KeyTemplate: "m.{version}.js"},
	)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, m.Keys())
}

func TestNewMapping_Duplicate(t *testing.T) {
	_, err := NewMapping(
		MappingRule{Key: "A", KeyTemplate: "a.{version}.js"},
		MappingRule{Key: "A", KeyTemplate: "b.{version}.js"},
	)
	assert.ErrorIs(t, err, ErrDuplicateRule)
}
