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
	"path"
	"strings"
)

// DefaultKnownPrefixes are the environment tags stripped from templates
// before the requested environment is prepended.
var DefaultKnownPrefixes = []string{"dev", "stage", "prd", "prod"}

// BuildKey substitutes version into template, strips a leading slash and
// at most one known environment prefix, then prepends env.
func BuildKey(template, version, env string, known []string) string {
	key := strings.ReplaceAll(template, PlaceholderLegacy, version)
	key = strings.ReplaceAll(key, PlaceholderVersion, version)
	key = StripEnvPrefix(key, known)
	return normalizeEnv(env) + "/" + key
}

// StripEnvPrefix removes leading slashes and one known environment prefix.
func StripEnvPrefix(key string, known []string) string {
	key = strings.TrimLeft(key, "/")
	for _, p := range known {
		p = normalizeEnv(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(key, p+"/") {
			return key[len(p)+1:]
		}
	}
	return key
}

// EnvDir returns the directory of a template under env, with a trailing
// slash. "/a/b/x.{version}.js" under "dev" is "dev/a/b/".
func EnvDir(template, env string, known []string) string {
	dir := path.Dir(StripEnvPrefix(template, known))
	if dir == "." || dir == "/" {
		return normalizeEnv(env) + "/"
	}
	return normalizeEnv(env) + "/" + dir + "/"
}

// ResolveKeys extracts the version of name using the rule's format and
// returns the source and destination keys.
func ResolveKeys(rule MappingRule, name, source, destination string, known []string) (version, sourceKey, destKey string, err error) {
	version, err = ExtractVersionFormat(name, rule.VersionFormat)
	if err != nil {
		return "", "", "", err
	}
	known = withEnvs(known, source, destination)
	return version,
		BuildKey(rule.KeyTemplate, version, source, known),
		BuildKey(rule.KeyTemplate, version, destination, known),
		nil
}

func normalizeEnv(env string) string {
	return strings.Trim(env, "/")
}

func withEnvs(known []string, envs ...string) []string {
	out := append([]string(nil), known...)
	for _, e := range envs {
		e = normalizeEnv(e)
		if e == "" {
			continue
		}
		dup := false
		for _, k := range out {
			if normalizeEnv(k) == e {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}
