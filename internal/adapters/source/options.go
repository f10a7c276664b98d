package source

import "github.com/okian/careerpath/pkg/logger"

// Option configures an Opener.
type Option func(*Opener)

// WithS3Region sets the AWS region used for s3:// sources.
func WithS3Region(region string) Option {
	return func(o *Opener) {
		o.region = region
	}
}

// WithS3Endpoint points s3:// sources at an S3-compatible endpoint such as
// MinIO or Cloudflare R2. Path-style addressing is used when set.
func WithS3Endpoint(endpoint string) Option {
	return func(o *Opener) {
		o.endpoint = endpoint
	}
}

// WithS3Client replaces the S3 client.
func WithS3Client(c ObjectGetter) Option {
	return func(o *Opener) {
		if c != nil {
			o.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Opener) {
		if l != nil {
			o.logger = l
		}
	}
}
