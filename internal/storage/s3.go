package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fabrica-tour/api/internal/config"
)

// Client wraps the two object buckets (general media and mission evidence).
// Objects are written directly and read through short-lived signed URLs.
type Client struct {
	s3       *s3.Client
	presign  *s3.PresignClient
	endpoint string
}

func New(ctx context.Context, conf *config.StorageConfig) (*Client, error) {
	awsConf, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AccessKeyID, conf.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("awsconfig.LoadDefaultConfig -> %w", err)
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3:       client,
		presign:  s3.NewPresignClient(client),
		endpoint: conf.Endpoint,
	}, nil
}

func (c *Client) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("s3.PutObject -> %w", err)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3.DeleteObject -> %w", err)
	}

	return nil
}

func (c *Client) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("s3.PresignGetObject -> %w", err)
	}

	return req.URL, nil
}
