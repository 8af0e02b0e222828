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
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// VersionFormat selects how a version token is read from a component name.
type VersionFormat string

const (
	// VersionLast takes the final numeric segment: "KP-Phaser-3.86.0" -> "0".
	VersionLast VersionFormat = "last"
	// VersionDotted takes the whole dotted token after the last dash:
	// "KP-Phaser-3.86.0" -> "3.86.0".
	VersionDotted VersionFormat = "dotted"
)

var (
	lastVersionRe   = regexp.MustCompile(`[-.](\d+)$`)
	dottedVersionRe = regexp.MustCompile(`-(\d+(?:\.\d+)*)$`)
)

// ExtractVersion returns the trailing run of digits of name. The digits
// must be preceded by '-' or '.', so "Component-A-V1" has no version.
func ExtractVersion(name string) (string, error) {
	return ExtractVersionFormat(name, VersionLast)
}

// ExtractVersionFormat is ExtractVersion with an explicit format.
func ExtractVersionFormat(name string, f VersionFormat) (string, error) {
	switch f {
	case "", VersionLast:
		m := lastVersionRe.FindStringSubmatch(name)
		if m == nil {
			return "", fmt.Errorf("%w in component name: %s", ErrNoVersionFound, name)
		}
		return m[1], nil
	case VersionDotted:
		m := dottedVersionRe.FindStringSubmatch(name)
		if m == nil {
			return "", fmt.Errorf("%w in component name: %s", ErrNoVersionFound, name)
		}
		v, err := semver.NewVersion(m[1])
		if err != nil {
			return "", fmt.Errorf("%w in component name: %s: %v", ErrNoVersionFound, name, err)
		}
		return v.Original(), nil
	default:
		return "", fmt.Errorf("unknown version format %q", f)
	}
}
