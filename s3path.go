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

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errNoBucketName = errors.New("s3 url is missing bucket name")

type s3Path struct {
	bucket string
	key    string
}

func (p *s3Path) String() string {
	return "s3://" + p.bucket + "/" + p.key
}

// ParseBucket accepts either a bare bucket name or an s3://bucket URL and
// returns the bucket name. A URL carrying a key path is rejected.
func ParseBucket(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		if s == "" || strings.Contains(s, "/") {
			return "", fmt.Errorf("invalid bucket name %q", s)
		}
		return s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "s3" {
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", errNoBucketName
	}
	if p := strings.Trim(u.Path, "/"); p != "" {
		return "", fmt.Errorf("bucket url must not contain a key: %s", s)
	}
	return u.Host, nil
}
