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

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/seqsense/s3promote"
)

var errNoComponents = errors.New("no component names found")

// componentNames prefers the inline list over the components file.
func (c Config) componentNames() ([]string, error) {
	if c.Components != "" {
		names := s3promote.SplitComponentNames(c.Components)
		if len(names) == 0 {
			return nil, errNoComponents
		}
		return names, nil
	}
	names, err := s3promote.LoadComponentNames(c.ComponentsFile)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errNoComponents
	}
	return names, nil
}

func runPromote(ctx context.Context, cfg Config, logger *zap.Logger) int {
	logger.Info("starting",
		zap.String("mapping_file", cfg.MappingFile),
		zap.String("bucket", cfg.Bucket),
		zap.String("source_prefix", cfg.SourcePrefix),
		zap.String("destination_prefix", cfg.DestinationPrefix),
		zap.Bool("dry_run", cfg.DryRun),
	)

	store, err := cfg.newStore(ctx, logger)
	if err != nil {
		logger.Error("cannot create S3 client", zap.Error(err))
		return 1
	}

	mapping, err := s3promote.LoadMapping(cfg.MappingFile, logger)
	if err != nil {
		logger.Error("cannot load component mappings", zap.Error(err))
		return 1
	}
	if mapping.Len() == 0 {
		logger.Error("no component mappings found")
		return 1
	}
	logger.Info("loaded component mappings", zap.Int("count", mapping.Len()))

	names, err := cfg.componentNames()
	if err != nil {
		logger.Error("cannot load component names", zap.Error(err))
		return 1
	}
	logger.Info("found components to process", zap.Int("count", len(names)))

	opts := []s3promote.Option{
		s3promote.WithSourcePrefix(cfg.SourcePrefix),
		s3promote.WithDestinationPrefix(cfg.DestinationPrefix),
		s3promote.WithDryRun(cfg.DryRun),
		s3promote.WithLogger(logger),
	}
	var metrics *s3promote.Metrics
	if cfg.MetricsFile != "" {
		metrics = s3promote.NewMetrics()
		opts = append(opts, s3promote.WithMetrics(metrics))
	}
	m := s3promote.New(store, mapping, opts...)

	if err := m.CheckAccess(ctx); err != nil {
		logger.Error("failed to access S3 bucket; required IAM permissions are s3:ListBucket, s3:GetObject on the source and s3:PutObject on the destination",
			zap.Error(err))
		return 1
	}

	report := m.Run(ctx, names)
	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("cannot write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}
	if cfg.DryRun {
		logger.Info("to actually perform the copy operations, run without --dry-run")
	}
	return report.ExitCode()
}
