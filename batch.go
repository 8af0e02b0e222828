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
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Report aggregates the outcomes of a Run.
type Report struct {
	Total     int
	Succeeded []string
	Failed    []string
	// NoMapping counts failures caused by a missing mapping rule.
	NoMapping int
	Outcomes  []Outcome
	DryRun    bool

	errs multiErr
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded() {
		r.Succeeded = append(r.Succeeded, o.Name)
		return
	}
	r.Failed = append(r.Failed, o.Name)
	if errors.Is(o.Err, ErrNoMappingFound) {
		r.NoMapping++
	}
	r.errs.Append(&itemError{name: o.Name, err: o.Err})
}

// Err returns the per-item failures joined into one error, or nil.
func (r *Report) Err() error {
	return r.errs.ErrOrNil()
}

// ExitCode returns 0 if no item failed and 1 otherwise.
func (r *Report) ExitCode() int {
	if len(r.Failed) > 0 {
		return 1
	}
	return 0
}

// Run promotes names one after another. A failing item never stops the
// batch; only a cancelled context does, failing the remaining names.
func (m *Manager) Run(ctx context.Context, names []string) *Report {
	r := &Report{Total: len(names), DryRun: m.dryrun}
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			for _, rest := range names[i:] {
				r.add(Outcome{Name: rest, Status: StatusFailed, Err: err, DryRun: m.dryrun})
			}
			break
		}
		m.logger.Info("processing component",
			zap.Int("index", i+1), zap.Int("total", len(names)), zap.String("component", name))
		r.add(m.runItem(ctx, name))
	}
	m.logSummary(r)
	return r
}

func (m *Manager) runItem(ctx context.Context, name string) (o Outcome) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			o = Outcome{
				Name:   name,
				Status: StatusFailed,
				Err:    fmt.Errorf("%w while processing %s: %v", ErrUnexpected, name, p),
				DryRun: m.dryrun,
			}
			m.logger.Error("unexpected error", zap.String("component", name), zap.Any("panic", p), zap.Stack("stack"))
		}
		m.metrics.observe(o, time.Since(start))
	}()
	return m.Promote(ctx, name)
}

func (m *Manager) logSummary(r *Report) {
	msg := "summary"
	if r.DryRun {
		msg = "dry run summary (no changes were made)"
	}
	m.logger.Info(msg,
		zap.Int("total", r.Total),
		zap.Int("successful", len(r.Succeeded)),
		zap.Int("failed", len(r.Failed)),
		zap.Int("no_mapping", r.NoMapping),
		zap.Strings("successful_components", r.Succeeded),
		zap.Strings("failed_components", r.Failed),
	)
	if len(r.Failed) > 0 && len(r.Succeeded) > 0 {
		m.logger.Info("some components succeeded while others failed; permission errors here usually mean path-specific IAM permissions or bucket policies")
	}
}
