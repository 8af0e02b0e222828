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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seqsense/s3promote"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type app struct {
	v        *viper.Viper
	exitCode int
	// newLogger is replaced in tests.
	newLogger func(level string) *zap.Logger
}

func newApp() *app {
	return &app{
		v:         viper.New(),
		newLogger: s3promote.NewLogger,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "s3promote",
		Short: "Copy component files between environment prefixes of an S3 bucket",
		Long: `Copy component files from one environment prefix (dev/ by default) to
another (stage/ by default) of an S3 bucket. Component names are matched
against the mapping file by longest component_key prefix and the trailing
version number is substituted into the rule's path_format.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			return bindConfig(a.v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper(a.v)
			logger := a.newLogger(cfg.LogLevel)
			defer logger.Sync() //nolint:errcheck
			a.exitCode = runPromote(cmd.Context(), cfg, logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("bucket", "spinomenal-cdn-main", "S3 bucket name or s3://bucket URL")
	pf.String("mapping-file", "config/components_mapping.json", "path to component mappings JSON file")
	pf.String("region", "", "AWS region (default: auto-detect from bucket, falls back to us-east-1)")
	pf.String("source-prefix", s3promote.DefaultSourcePrefix, "source path prefix (e.g. dev, stage, prd)")
	pf.String("destination-prefix", s3promote.DefaultDestinationPrefix, "destination path prefix (e.g. stage, prd)")
	pf.String("access-key", "", "AWS access key ID (also AWS_ACCESS_KEY_ID)")
	pf.String("secret-key", "", "AWS secret access key (also AWS_SECRET_ACCESS_KEY)")
	pf.String("session-token", "", "AWS session token for temporary credentials (also AWS_SESSION_TOKEN)")
	pf.String("profile", "", "AWS profile name from shared config or AWS SSO")
	pf.String("endpoint", "", "custom S3 endpoint URL (e.g. MinIO or LocalStack)")
	pf.Bool("path-style", false, "use path-style S3 addressing")
	pf.String("log-level", "info", "log level: debug, info, warn or error")

	f := root.Flags()
	f.String("components-file", "config/components_to_replace.json", "path to component names JSON file")
	f.String("components", "", "comma-separated component names (overrides --components-file)")
	f.Bool("dry-run", false, "validate and show what would be done without copying")
	f.String("acl", "", "canned ACL applied to copied objects")
	f.String("content-type", "", "content type forced on copied objects")
	f.Bool("guess-mime", false, "detect the content type of sources stored without one")
	f.String("metrics-file", "", "write run metrics in Prometheus textfile format to this path")

	root.AddCommand(a.listComponentsCommand(), a.lsCommand(), versionCommand())
	return root
}

func (a *app) listComponentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-components",
		Short: "List the component keys of the mapping file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper(a.v)
			mapping, err := s3promote.LoadMapping(cfg.MappingFile, a.newLogger(cfg.LogLevel))
			if err != nil {
				return err
			}
			keys := mapping.Keys()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available component keys (%d total):\n\n", len(keys))
			for _, k := range keys {
				fmt.Fprintf(out, "  %s\n", k)
			}
			fmt.Fprintf(out, "\nComma-separated list:\n%s\n", strings.Join(keys, ","))
			return nil
		},
	}
}

func (a *app) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls COMPONENT_KEY",
		Short: "List the source objects in the directory of a component key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper(a.v)
			logger := a.newLogger(cfg.LogLevel)
			defer logger.Sync() //nolint:errcheck

			mapping, err := s3promote.LoadMapping(cfg.MappingFile, logger)
			if err != nil {
				return err
			}
			store, err := cfg.newStore(cmd.Context(), logger)
			if err != nil {
				return err
			}
			m := s3promote.New(store, mapping,
				s3promote.WithSourcePrefix(cfg.SourcePrefix),
				s3promote.WithDestinationPrefix(cfg.DestinationPrefix),
				s3promote.WithLogger(logger),
			)
			keys, err := m.ListSource(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, s3promote.ErrNoMappingFound) {
					return fmt.Errorf("%w (see list-components)", err)
				}
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "s3promote %s\n", Version)
		},
	}
}
