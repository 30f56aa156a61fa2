package importer

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures a bucket-backed source
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO and other S3-compatible stores
	AccessKey string
	SecretKey string
}

// S3API is the subset of the S3 client used by S3Source
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source lists a bucket as a directory tree: common prefixes are folders,
// objects are files. Handles are key prefixes ending in "/" or object keys.
type S3Source struct {
	client S3API
	bucket string
}

// NewS3Source builds a source from static or default AWS credentials
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3SourceWithClient(client, cfg.Bucket), nil
}

// NewS3SourceWithClient wraps an existing client
func NewS3SourceWithClient(client S3API, bucket string) *S3Source {
	return &S3Source{client: client, bucket: bucket}
}

// Roots returns the bucket root
func (s *S3Source) Roots() []string {
	return []string{"s3://" + s.bucket + "/"}
}

func normalizePrefix(handle string) string {
	prefix := strings.TrimLeft(handle, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// ListChildren lists one level below a key prefix
func (s *S3Source) ListChildren(ctx context.Context, handle string) ([]Entry, error) {
	prefix := normalizePrefix(strings.TrimPrefix(handle, "s3://"+s.bucket))

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var entries []Entry
	seen := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			seen = true
			child := aws.ToString(cp.Prefix)
			entries = append(entries, Entry{
				Name:   path.Base(strings.TrimSuffix(child, "/")),
				IsDir:  true,
				Handle: child,
			})
		}
		for _, obj := range page.Contents {
			seen = true
			key := aws.ToString(obj.Key)
			if key == prefix {
				// folder marker object
				continue
			}
			entries = append(entries, Entry{
				Name:    path.Base(key),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
				Handle:  key,
			})
		}
		if len(entries) >= MaxDirEntries {
			entries = entries[:MaxDirEntries]
			break
		}
	}

	if !seen && prefix != "" {
		return nil, ErrNotDirectory
	}
	return entries, nil
}

// ReadFile fetches at most MaxFileSize bytes of an object
func (s *S3Source) ReadFile(ctx context.Context, key string) (*FileContent, error) {
	if strings.HasSuffix(key, "/") {
		return nil, ErrIsDirectory
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", MaxFileSize)),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(io.LimitReader(out.Body, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}

	size := objectSize(aws.ToString(out.ContentRange), int64(len(content)))
	truncated := len(content) > MaxFileSize
	if truncated {
		content = content[:MaxFileSize]
	}
	return newFileContent(path.Base(key), content, size, truncated), nil
}

// objectSize extracts the total from a "bytes 0-99/1234" Content-Range
func objectSize(contentRange string, fallback int64) int64 {
	i := strings.LastIndex(contentRange, "/")
	if i < 0 {
		return fallback
	}
	total, err := strconv.ParseInt(contentRange[i+1:], 10, 64)
	if err != nil {
		return fallback
	}
	return total
}
