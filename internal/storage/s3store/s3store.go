// Package s3store keeps the note collection as a single object in an
// S3-compatible bucket. A PutObject replaces the object whole, so readers
// never see a partial collection.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"example.com/notes-registry/internal/notes"
	"example.com/notes-registry/internal/storage/codec"
)

var _ notes.Persister = (*Persister)(nil)

// Config holds the settings for reaching the bucket.
type Config struct {
	// Endpoint is the S3 endpoint URL. Leave empty to use AWS S3.
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// Key names the object; its extension picks the codec.
	Key string
	// UsePathStyle is required by most S3-compatible servers.
	UsePathStyle bool
}

type Persister struct {
	client *s3.Client
	bucket string
	key    string
	codec  codec.Codec
}

func New(ctx context.Context, cfg Config) (*Persister, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3store: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewFromClient(client, cfg.Bucket, cfg.Key), nil
}

// NewFromClient wraps an existing client, e.g. one pointed at gofakes3.
func NewFromClient(client *s3.Client, bucket, key string) *Persister {
	return &Persister{client: client, bucket: bucket, key: key, codec: codec.ForPath(key)}
}

// Load fetches and decodes the object. A missing object is an empty collection.
func (p *Persister) Load(ctx context.Context) (notes.Collection, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key),
	})
	if err != nil {
		if isNotFound(err) {
			return notes.Collection{}, nil
		}
		return nil, fmt.Errorf("s3store: get %q: %w", p.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3store: read %q: %w", p.key, err)
	}
	c, err := p.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("s3store: decode %q: %w", p.key, err)
	}
	return c, nil
}

func (p *Persister) Save(ctx context.Context, c notes.Collection) error {
	data, err := p.codec.Encode(c)
	if err != nil {
		return fmt.Errorf("s3store: encode %q: %w", p.key, err)
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(p.codec.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("s3store: put %q: %w", p.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	return errors.As(err, &nf)
}
