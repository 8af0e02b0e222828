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
	"io/fs"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seqsense/s3promote"
)

const envPrefix = "S3PROMOTE"

// Config holds the command line settings.
type Config struct {
	Bucket            string
	MappingFile       string
	ComponentsFile    string
	Components        string
	Region            string
	SourcePrefix      string
	DestinationPrefix string
	AccessKey         string
	SecretKey         string
	SessionToken      string
	Profile           string
	Endpoint          string
	PathStyle         bool
	ACL               string
	ContentType       string
	GuessMime         bool
	LogLevel          string
	DryRun            bool
	MetricsFile       string
}

// loadDotEnv loads ./.env if present. Existing variables win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// bindConfig binds the flags of cmd to v. Every flag can also be set
// through S3PROMOTE_<FLAG> with dashes replaced by underscores.
func bindConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, b := range []struct{ key, env string }{
		{"access-key", "AWS_ACCESS_KEY_ID"},
		{"secret-key", "AWS_SECRET_ACCESS_KEY"},
		{"session-token", "AWS_SESSION_TOKEN"},
	} {
		envName := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(b.key, "-", "_"))
		if err := v.BindEnv(b.key, envName, b.env); err != nil {
			return err
		}
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return v.BindPFlags(cmd.Flags())
}

func configFromViper(v *viper.Viper) Config {
	return Config{
		Bucket:            v.GetString("bucket"),
		MappingFile:       v.GetString("mapping-file"),
		ComponentsFile:    v.GetString("components-file"),
		Components:        v.GetString("components"),
		Region:            v.GetString("region"),
		SourcePrefix:      v.GetString("source-prefix"),
		DestinationPrefix: v.GetString("destination-prefix"),
		AccessKey:         sanitizeSecret(v.GetString("access-key")),
		SecretKey:         sanitizeSecret(v.GetString("secret-key")),
		SessionToken:      sanitizeSecret(v.GetString("session-token")),
		Profile:           v.GetString("profile"),
		Endpoint:          v.GetString("endpoint"),
		PathStyle:         v.GetBool("path-style"),
		ACL:               v.GetString("acl"),
		ContentType:       v.GetString("content-type"),
		GuessMime:         v.GetBool("guess-mime"),
		LogLevel:          v.GetString("log-level"),
		DryRun:            v.GetBool("dry-run"),
		MetricsFile:       v.GetString("metrics-file"),
	}
}

// sanitizeSecret drops surrounding whitespace and any embedded line breaks
// left over from copy and paste.
func sanitizeSecret(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

func maskKey(k string) string {
	if len(k) > 8 {
		return k[:4] + "..." + k[len(k)-4:]
	}
	return "****"
}

func (c Config) awsConfig(ctx context.Context, region string, logger *zap.Logger) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	switch {
	case c.Profile != "":
		logger.Info("using AWS profile", zap.String("profile", c.Profile))
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	case c.AccessKey != "" && c.SecretKey != "":
		logger.Info("using AWS credentials from arguments or environment variables",
			zap.String("access_key", maskKey(c.AccessKey)),
			zap.Bool("session_token", c.SessionToken != ""))
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, c.SessionToken),
		))
	default:
		logger.Info("using default AWS credential chain")
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func (c Config) s3Client(cfg aws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.PathStyle
	})
}

func (c Config) storeOptions() []s3promote.S3StoreOption {
	var opts []s3promote.S3StoreOption
	if c.ACL != "" {
		opts = append(opts, s3promote.WithACL(c.ACL))
	}
	if c.ContentType != "" {
		opts = append(opts, s3promote.WithContentType(c.ContentType))
	}
	if c.GuessMime {
		opts = append(opts, s3promote.WithGuessMime(true))
	}
	return opts
}

// newStore builds the S3 store. Without an explicit region the bucket
// region is detected and the client is rebuilt for it when it differs.
func (c Config) newStore(ctx context.Context, logger *zap.Logger) (*s3promote.S3Store, error) {
	bucket, err := s3promote.ParseBucket(c.Bucket)
	if err != nil {
		return nil, err
	}
	region := c.Region
	if region == "" {
		region = s3promote.DefaultRegion
	}
	cfg, err := c.awsConfig(ctx, region, logger)
	if err != nil {
		return nil, err
	}
	store := s3promote.NewS3Store(c.s3Client(cfg), bucket, c.storeOptions()...)
	if c.Region != "" {
		logger.Info("using AWS region", zap.String("region", c.Region), zap.Bool("user_specified", true))
		return store, nil
	}

	detected, err := store.BucketRegion(ctx)
	if err != nil {
		logger.Warn("could not detect bucket region, defaulting", zap.String("region", region), zap.Error(err))
		return store, nil
	}
	if detected != region {
		logger.Info("recreating S3 client with detected region", zap.String("region", detected))
		cfg.Region = detected
		store = s3promote.NewS3Store(c.s3Client(cfg), bucket, c.storeOptions()...)
	}
	logger.Info("using AWS region", zap.String("region", detected))
	return store, nil
}
