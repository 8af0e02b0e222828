// Copyright 2019 SEQSENSE, Inc.
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

import "go.uber.org/zap"

const (
	// Default environment the objects are copied from.
	DefaultSourcePrefix = "dev"
	// Default environment the objects are copied to.
	DefaultDestinationPrefix = "stage"
)

// Option is a functional option type of Manager.
type Option func(*Manager)

// WithDryRun makes the Manager run every check but skip the copy.
func WithDryRun(dryrun bool) Option {
	return func(m *Manager) {
		m.dryrun = dryrun
	}
}

// WithSourcePrefix sets the environment prefix of source keys.
func WithSourcePrefix(prefix string) Option {
	return func(m *Manager) {
		m.sourcePrefix = normalizeEnv(prefix)
	}
}

// WithDestinationPrefix sets the environment prefix of destination keys.
func WithDestinationPrefix(prefix string) Option {
	return func(m *Manager) {
		m.destPrefix = normalizeEnv(prefix)
	}
}

// WithKnownPrefixes replaces the environment prefixes stripped from
// key templates. The source and destination prefixes are always known.
func WithKnownPrefixes(prefixes ...string) Option {
	return func(m *Manager) {
		m.known = append([]string(nil), prefixes...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records per-item outcomes into the given Metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}
