// Package source opens the catalog CSV from the local filesystem or S3.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/logger"
)

const s3Scheme = "s3"

// ObjectGetter is the part of the S3 client the opener needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener resolves a catalog source string to a reader. A source is either a
// file path or an s3://bucket/key URL.
type Opener struct {
	region   string
	endpoint string
	client   ObjectGetter
	logger   logger.Logger
}

// New creates an Opener with the given options.
func New(opts ...Option) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("source")
	}
	return o
}

// Open returns a reader over the catalog. The caller closes it. Every failure
// wraps model.ErrDataLoad.
func (o *Opener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: catalog source is empty", model.ErrDataLoad)
	}

	if !strings.HasPrefix(strings.ToLower(src), s3Scheme+"://") {
		o.logger.Debug(ctx, "opening catalog file", logger.String("path", src))
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrDataLoad, err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URL(src)
	if err != nil {
		return nil, err
	}
	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	o.logger.Info(ctx, "downloading catalog from s3",
		logger.String("bucket", bucket),
		logger.String("key", key),
	)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", model.ErrDataLoad, bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: parse %q: %w", model.ErrDataLoad, raw, err)
	}
	if !strings.EqualFold(u.Scheme, s3Scheme) {
		return "", "", fmt.Errorf("%w: %q is not an s3 url", model.ErrDataLoad, raw)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs both bucket and key", model.ErrDataLoad, raw)
	}
	return bucket, key, nil
}

func (o *Opener) s3Client(ctx context.Context) (ObjectGetter, error) {
	if o.client != nil {
		return o.client, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(o.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", model.ErrDataLoad, err)
	}

	endpoint := o.endpoint
	o.client = s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if endpoint != "" {
			opts.BaseEndpoint = aws.String(endpoint)
			opts.UsePathStyle = true
		}
	})
	return o.client, nil
}
