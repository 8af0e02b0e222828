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

func TestLoadComponentNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components_to_replace.json")
	require.NoError(t, os.WriteFile(path, []byte(`["Component-A-V1-19", "Component-B-227", "Component-F-202"]`), 0o644))

	names, err := LoadComponentNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Component-A-V1-19", "Component-B-227", "Component-F-202"}, names)

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadComponentNames(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("NotAnArray", func(t *testing.T) {
		_, err := ParseComponentNames(strings.NewReader(`{"name": "Component-A-V1-19"}`))
		assert.Error(t, err)
	})
	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := ParseComponentNames(strings.NewReader(`["Component-A-V1-19"`))
		assert.Error(t, err)
	})
}

func TestSplitComponentNames(t *testing.T) {
	assert.Equal(t, []string{"A-1", "B-2"}, SplitComponentNames(" A-1 , ,B-2,"))
	assert.Nil(t, SplitComponentNames(" , "))
	assert.Nil(t, SplitComponentNames(""))
}
