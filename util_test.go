// Copyright 2019 SEQSENSE, Inc.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package s3promote

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

const testBucket = "test-bucket"

// fakeStore is an in-memory ObjectStore recording every call.
type fakeStore struct {
	objects   map[string]bool
	existsErr map[string]error
	copyErr   map[string]error
	listErr   error
	region    string
	panicOn   string

	existsCalls []string
	copies      [][2]string
	listed      []string
}

func newFakeStore(keys ...string) *fakeStore {
	s := &fakeStore{
		objects:   make(map[string]bool),
		existsErr: make(map[string]error),
		copyErr:   make(map[string]error),
		region:    "eu-west-1",
	}
	for _, k := range keys {
		s.objects[k] = true
	}
	return s
}

func (s *fakeStore) Bucket() string {
	return testBucket
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	if key == s.panicOn {
		panic("boom")
	}
	s.existsCalls = append(s.existsCalls, key)
	if err := s.existsErr[key]; err != nil {
		return false, err
	}
	return s.objects[key], nil
}

func (s *fakeStore) Copy(ctx context.Context, sourceKey, destKey string) error {
	s.copies = append(s.copies, [2]string{sourceKey, destKey})
	if err := s.copyErr[destKey]; err != nil {
		return err
	}
	s.objects[destKey] = true
	return nil
}

func (s *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.listed = append(s.listed, prefix)
	if s.listErr != nil {
		return nil, s.listErr
	}
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fakeStore) BucketRegion(ctx context.Context) (string, error) {
	return s.region, nil
}

// fakeS3API implements S3API with overridable functions.
type fakeS3API struct {
	headObject        func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
	getObject         func(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
	copyObject        func(*s3.CopyObjectInput) (*s3.CopyObjectOutput, error)
	listObjectsV2     func(*s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
	headBucket        func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	getBucketLocation func(*s3.GetBucketLocationInput) (*s3.GetBucketLocationOutput, error)

	copyInputs []*s3.CopyObjectInput
}

func (f *fakeS3API) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return f.headObject(in)
}

func (f *fakeS3API) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return f.getObject(in)
}

func (f *fakeS3API) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copyInputs = append(f.copyInputs, in)
	if f.copyObject == nil {
		return &s3.CopyObjectOutput{}, nil
	}
	return f.copyObject(in)
}

func (f *fakeS3API) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return f.listObjectsV2(in)
}

func (f *fakeS3API) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return f.headBucket(in)
}

func (f *fakeS3API) GetBucketLocation(ctx context.Context, in *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	return f.getBucketLocation(in)
}

func mustMapping(t *testing.T, rules ...MappingRule) *Mapping {
	t.Helper()
	m, err := NewMapping(rules...)
	require.NoError(t, err)
	return m
}
