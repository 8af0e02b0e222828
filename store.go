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
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

// ObjectStore is the bucket-scoped storage the promotion runs against.
// Errors are classified so that errors.Is matches ErrNotFound,
// ErrPermissionDenied or ErrTransport.
type ObjectStore interface {
	// Exists reports whether key exists. A missing key is not an error.
	Exists(ctx context.Context, key string) (bool, error)
	// Copy copies sourceKey to destKey, overwriting destKey.
	Copy(ctx context.Context, sourceKey, destKey string) error
	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// BucketRegion returns the region the bucket lives in.
	BucketRegion(ctx context.Context) (string, error)
}

type bucketNamer interface {
	Bucket() string
}

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// DefaultRegion is assumed for buckets whose location constraint is empty.
const DefaultRegion = "us-east-1"

// Bytes read from the source object to detect its content type.
const mimeSniffLen = 3072

// S3Store is an ObjectStore backed by a single S3 bucket.
type S3Store struct {
	client      S3API
	bucket      string
	acl         *string
	contentType *string
	guessMime   bool
}

// S3StoreOption is a functional option type of S3Store.
type S3StoreOption func(*S3Store)

// WithACL sets the canned ACL applied to copied objects.
func WithACL(acl string) S3StoreOption {
	return func(s *S3Store) {
		s.acl = &acl
	}
}

// WithContentType forces the content type of copied objects.
func WithContentType(contentType string) S3StoreOption {
	return func(s *S3Store) {
		s.contentType = &contentType
	}
}

// WithGuessMime enables detecting the content type of sources stored
// without a meaningful one.
func WithGuessMime(guess bool) S3StoreOption {
	return func(s *S3Store) {
		s.guessMime = guess
	}
}

// NewS3Store returns an ObjectStore for bucket.
func NewS3Store(client S3API, bucket string, options ...S3StoreOption) *S3Store {
	s := &S3Store{
		client: client,
		bucket: bucket,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Bucket returns the bucket name.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Exists implements ObjectStore.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	cerr := classifyError(err)
	if errors.Is(cerr, ErrNotFound) {
		return false, nil
	}
	return false, &ObjectError{Op: "head", Bucket: s.bucket, Key: key, Err: cerr}
}

// Copy implements ObjectStore.
func (s *S3Store) Copy(ctx context.Context, sourceKey, destKey string) error {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(destKey),
		CopySource: aws.String(copySource(s.bucket, sourceKey)),
	}
	if s.acl != nil {
		input.ACL = types.ObjectCannedACL(*s.acl)
	}
	if err := s.applyContentType(ctx, input, sourceKey); err != nil {
		return err
	}
	if _, err := s.client.CopyObject(ctx, input); err != nil {
		return &ObjectError{Op: "copy", Bucket: s.bucket, Key: destKey, Err: classifyError(err)}
	}
	return nil
}

// applyContentType switches the copy to REPLACE metadata when a content type
// has to be set. Source metadata is carried over in that case.
func (s *S3Store) applyContentType(ctx context.Context, input *s3.CopyObjectInput, sourceKey string) error {
	if s.contentType == nil && !s.guessMime {
		return nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(sourceKey),
		Range:  aws.String("bytes=0-" + strconv.Itoa(mimeSniffLen-1)),
	})
	if err != nil {
		return &ObjectError{Op: "get", Bucket: s.bucket, Key: sourceKey, Err: classifyError(err)}
	}
	defer out.Body.Close()

	var contentType string
	switch {
	case s.contentType != nil:
		contentType = *s.contentType
	case isUntyped(aws.ToString(out.ContentType)):
		mime, err := mimetype.DetectReader(io.LimitReader(out.Body, mimeSniffLen))
		if err != nil {
			return &ObjectError{Op: "get", Bucket: s.bucket, Key: sourceKey, Err: &classified{kind: ErrTransport, cause: err}}
		}
		contentType = mime.String()
	default:
		return nil
	}

	input.MetadataDirective = types.MetadataDirectiveReplace
	input.ContentType = aws.String(contentType)
	input.Metadata = out.Metadata
	input.CacheControl = out.CacheControl
	input.ContentEncoding = out.ContentEncoding
	input.ContentDisposition = out.ContentDisposition
	input.ContentLanguage = out.ContentLanguage
	return nil
}

// List implements ObjectStore. Directory marker objects are skipped.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &ObjectError{Op: "list", Bucket: s.bucket, Key: prefix, Err: classifyError(err)}
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// BucketRegion implements ObjectStore. The x-amz-bucket-region header of
// HeadBucket is used first, then GetBucketLocation.
func (s *S3Store) BucketRegion(ctx context.Context) (string, error) {
	region, err := manager.GetBucketRegion(ctx, s.client, s.bucket)
	if err == nil && region != "" {
		return region, nil
	}

	loc, lerr := s.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(s.bucket),
	})
	if lerr != nil {
		if err == nil {
			err = lerr
		}
		return "", &ObjectError{Op: "region", Bucket: s.bucket, Err: classifyError(err)}
	}
	if loc.LocationConstraint == "" {
		return DefaultRegion, nil
	}
	return string(loc.LocationConstraint), nil
}

func copySource(bucket, key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segs, "/")
}

func isUntyped(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "", "binary/octet-stream", "application/octet-stream":
		return true
	}
	return false
}

// classifyError maps an SDK error onto ErrNotFound, ErrPermissionDenied or
// ErrTransport, keeping the SDK error in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return &classified{kind: ErrNotFound, cause: err}
		case "AccessDenied", "Forbidden", "403", "AllAccessDisabled",
			"InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
			return &classified{kind: ErrPermissionDenied, cause: err}
		}
	}
	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		switch statusErr.HTTPStatusCode() {
		case 404:
			return &classified{kind: ErrNotFound, cause: err}
		case 403:
			return &classified{kind: ErrPermissionDenied, cause: err}
		}
	}
	return &classified{kind: ErrTransport, cause: err}
}
