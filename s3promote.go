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

// Package s3promote copies versioned component files between environment
// prefixes (dev/, stage/, prd/ ...) of a single S3 bucket.
package s3promote

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"
)

// Prefix listed by CheckAccess. It is not expected to hold any object.
const accessCheckPrefix = "__access_check__"

// Manager manages the promotion of components.
type Manager struct {
	store        ObjectStore
	mapping      *Mapping
	bucket       string
	sourcePrefix string
	destPrefix   string
	known        []string
	dryrun       bool
	logger       *zap.Logger
	metrics      *Metrics
}

// Status is the result class of a single transfer.
type Status int

const (
	StatusCopied Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is the result of promoting one component.
type Outcome struct {
	Name           string
	Rule           string
	Version        string
	SourceKey      string
	DestinationKey string
	Status         Status
	// Err is the skip or failure reason. It is nil for StatusCopied.
	Err error
	// DestinationExisted is set when the destination was found before the copy.
	DestinationExisted bool
	DryRun             bool
}

// Reason returns the skip or failure reason.
func (o Outcome) Reason() error {
	return o.Err
}

// Succeeded reports whether the outcome counts as a success.
func (o Outcome) Succeeded() bool {
	return o.Status != StatusFailed
}

// New returns a new Manager.
func New(store ObjectStore, mapping *Mapping, options ...Option) *Manager {
	m := &Manager{
		store:        store,
		mapping:      mapping,
		sourcePrefix: DefaultSourcePrefix,
		destPrefix:   DefaultDestinationPrefix,
		known:        DefaultKnownPrefixes,
		logger:       zap.NewNop(),
	}
	if b, ok := store.(bucketNamer); ok {
		m.bucket = b.Bucket()
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Keys resolves the rule, version and keys of a component name.
func (m *Manager) Keys(name string) (rule MappingRule, version, sourceKey, destKey string, err error) {
	rule, err = m.mapping.Match(name)
	if err != nil {
		return MappingRule{}, "", "", "", err
	}
	version, sourceKey, destKey, err = ResolveKeys(rule, name, m.sourcePrefix, m.destPrefix, m.known)
	return rule, version, sourceKey, destKey, err
}

// Promote resolves the keys of name and transfers the object.
func (m *Manager) Promote(ctx context.Context, name string) Outcome {
	rule, version, sourceKey, destKey, err := m.Keys(name)
	if err != nil {
		m.logger.Error("cannot resolve component", zap.String("component", name), zap.Error(err))
		return Outcome{Name: name, Rule: rule.Key, Status: StatusFailed, Err: err, DryRun: m.dryrun}
	}
	m.logger.Info("resolved component",
		zap.String("component", name),
		zap.String("rule", rule.Key),
		zap.String("version", version),
		zap.String("path_format", rule.KeyTemplate),
		zap.String("file", path.Base(sourceKey)),
	)

	o := m.Transfer(ctx, name, sourceKey, destKey)
	o.Rule = rule.Key
	o.Version = version
	return o
}

// Transfer copies sourceKey to destKey. The source must exist; an existing
// destination is overwritten. In dry-run mode the checks run but the copy
// is skipped.
func (m *Manager) Transfer(ctx context.Context, name, sourceKey, destKey string) Outcome {
	o := Outcome{
		Name:           name,
		SourceKey:      sourceKey,
		DestinationKey: destKey,
		DryRun:         m.dryrun,
	}
	log := m.logger.With(
		zap.String("component", name),
		objectField("source", m.bucket, sourceKey),
		objectField("destination", m.bucket, destKey),
	)
	if m.dryrun {
		log = log.With(zap.Bool("dry_run", true))
	}

	exists, err := m.store.Exists(ctx, sourceKey)
	switch {
	case err != nil:
		o.Status, o.Err = StatusFailed, failureReason(err)
		if errors.Is(err, ErrPermissionDenied) {
			log.Error("permission denied when checking source file; check s3:GetObject permission for this path and that the credentials have not expired", zap.Error(err))
		} else {
			log.Error("error when checking source file", zap.Error(err))
		}
		return o
	case !exists:
		o.Status, o.Err = StatusFailed, fmt.Errorf("%w: %s", ErrSourceMissing, (&s3Path{bucket: m.bucket, key: sourceKey}).String())
		log.Error("file does not exist in source, skipping")
		return o
	}
	log.Info("file found in source")

	o.DestinationExisted, err = m.store.Exists(ctx, destKey)
	switch {
	case err != nil:
		log.Warn("cannot check destination file, will attempt to copy anyway", zap.Error(err))
	case o.DestinationExisted:
		log.Info("file exists in destination, replacing it")
	default:
		log.Info("file does not exist in destination, uploading it")
	}

	if m.dryrun {
		o.Status, o.Err = StatusSkipped, ErrDryRun
		log.Info("would copy file", zap.Bool("overwrite", o.DestinationExisted))
		return o
	}

	if err := m.store.Copy(ctx, sourceKey, destKey); err != nil {
		o.Status, o.Err = StatusFailed, failureReason(err)
		if errors.Is(err, ErrPermissionDenied) {
			log.Error("permission denied when copying file; check s3:GetObject on the source and s3:PutObject on the destination path", zap.Error(err))
		} else {
			log.Error("error when copying file", zap.Error(err))
		}
		return o
	}
	o.Status = StatusCopied
	log.Info("copied file", zap.Bool("overwrote", o.DestinationExisted))
	return o
}

// CheckAccess verifies that the bucket can be listed.
func (m *Manager) CheckAccess(ctx context.Context) error {
	if _, err := m.store.List(ctx, accessCheckPrefix); err != nil {
		return fmt.Errorf("bucket access check: %w", err)
	}
	m.logger.Info("verified bucket access", zap.String("bucket", m.bucket))
	return nil
}

// ListSource returns the source-environment keys under the directory of
// the rule named key.
func (m *Manager) ListSource(ctx context.Context, key string) ([]string, error) {
	rule, ok := m.mapping.Rule(key)
	if !ok {
		return nil, fmt.Errorf("%w for component key %q", ErrNoMappingFound, key)
	}
	known := withEnvs(m.known, m.sourcePrefix, m.destPrefix)
	return m.store.List(ctx, EnvDir(rule.KeyTemplate, m.sourcePrefix, known))
}

// failureReason keeps store errors that are already classified and marks
// anything else as a transport error.
func failureReason(err error) error {
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrTransport) {
		return err
	}
	return &classified{kind: ErrTransport, cause: err}
}
