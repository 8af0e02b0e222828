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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Component-D-4", "4"},
		{"Component-A-V1-19", "19"},
		{"Component-C-V2-22", "22"},
		{"Component-E-57", "57"},
		{"Component-B-227", "227"},
		{"Component-F-202", "202"},
		{"Component-J-03.12.2025", "2025"},
		{"KP-Phaser-3.86.0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVersion(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVersion_NoVersion(t *testing.T) {
	for _, name := range []string{"Component-A-V1", "X-V1", "Component", "Component-", "Component-19a", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractVersion(name)
			assert.ErrorIs(t, err, ErrNoVersionFound)
		})
	}
}

func TestExtractVersion_PrefixDigits(t *testing.T) {
	for _, prefix := range []string{"A", "Component-A-V1", "KP-SlotMachineV2"} {
		for _, digits := range []string{"1", "19", "227", "2025"} {
			got, err := ExtractVersion(prefix + "-" + digits)
			require.NoError(t, err)
			assert.Equal(t, digits, got)
		}
	}
}

func TestExtractVersionFormat_Dotted(t *testing.T) {
	t.Run("MultiPart", func(t *testing.T) {
		got, err := ExtractVersionFormat("KP-Phaser-3.86.0", VersionDotted)
		require.NoError(t, err)
		assert.Equal(t, "3.86.0", got)
	})
	t.Run("SinglePart", func(t *testing.T) {
		got, err := ExtractVersionFormat("Component-B-227", VersionDotted)
		require.NoError(t, err)
		assert.Equal(t, "227", got)
	})
	t.Run("NoVersion", func(t *testing.T) {
		_, err := ExtractVersionFormat("Component-A-V1", VersionDotted)
		assert.ErrorIs(t, err, ErrNoVersionFound)
	})
	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := ExtractVersionFormat("Component-B-227", VersionFormat("calver"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoVersionFound)
	})
}
