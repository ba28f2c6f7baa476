// Package publish uploads rendered markup to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vcore/internal/config"
	"github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/render"
)

// DefaultRegion is used when neither the config nor the environment names
// a region.
const DefaultRegion = "us-east-1"

// Client is the part of the S3 API the publisher uses. *s3.Client
// implements it.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures a Publisher.
type Options struct {
	// Bucket is the destination bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Logger receives upload logs.
	// Default: slog.Default().With("component", "publish")
	Logger *slog.Logger
}

// Result describes an uploaded object.
type Result struct {
	Bucket string
	Key    string
	ETag   string
	Size   int
}

// Publisher uploads documents to a bucket.
type Publisher struct {
	client Client
	opts   Options
	logger *slog.Logger
}

// New creates a publisher that uploads through client.
func New(client Client, opts Options) *Publisher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "publish")
	}
	opts.Prefix = strings.Trim(opts.Prefix, "/")
	return &Publisher{client: client, opts: opts, logger: logger}
}

// FromConfig creates a publisher for the export section of cfg, with an S3
// client built by NewClient.
func FromConfig(cfg config.ExportConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("E160").
			WithDetail("export.bucket is not set").
			WithSuggestion("Set export.bucket in vcore.yaml")
	}
	return New(NewClient(cfg), Options{
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		Logger: logger,
	}), nil
}

// NewClient creates an S3 client for cfg. Credentials come from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN environment
// variables. A custom endpoint switches to path-style addressing, which
// S3-compatible stores expect.
func NewClient(cfg config.ExportConfig) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = DefaultRegion
	}

	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.New("E160").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return creds, nil
	})
}

// Key returns the object key for name.
func (p *Publisher) Key(name string) string {
	name = strings.TrimPrefix(name, "/")
	if p.opts.Prefix == "" {
		return name
	}
	return path.Join(p.opts.Prefix, name)
}

// Publish uploads data as name.
func (p *Publisher) Publish(ctx context.Context, name, contentType string, data []byte) (*Result, error) {
	if p.opts.Bucket == "" {
		return nil, errors.New("E160").WithDetail("no bucket configured")
	}
	key := p.Key(name)
	if key == "" {
		return nil, errors.New("E160").WithDetail("empty object key")
	}

	start := time.Now()
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"generator":    "vcore",
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, errors.New("E160").
			WithDetail("upload s3://" + p.opts.Bucket + "/" + key).
			Wrap(err)
	}

	res := &Result{Bucket: p.opts.Bucket, Key: key, Size: len(data)}
	if out != nil && out.ETag != nil {
		res.ETag = strings.Trim(*out.ETag, `"`)
	}
	p.logger.Info("published",
		"bucket", res.Bucket,
		"key", res.Key,
		"bytes", res.Size,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// PublishPage renders page as a standalone document and uploads it as name.
func (p *Publisher) PublishPage(ctx context.Context, name string, page render.PageData, rc render.RendererConfig) (*Result, error) {
	var buf bytes.Buffer
	if err := render.NewRenderer(rc).RenderPage(&buf, page); err != nil {
		return nil, errors.New("E160").WithDetail("render " + name).Wrap(err)
	}
	return p.Publish(ctx, name, "text/html; charset=utf-8", buf.Bytes())
}
