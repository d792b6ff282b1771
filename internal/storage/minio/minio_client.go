package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// Client implements port.ObjectStorage for MinIO and other S3-compatible stores.
type Client struct {
	client  *minio.Client
	baseURL string
}

// NewClient creates a MinIO-backed ObjectStorage from config.
func NewClient(cfg *config.StorageConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio: endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio: credentials are required")
	}

	host, secure, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}
	return &Client{client: client, baseURL: scheme + "://" + host}, nil
}

// parseEndpoint accepts either a bare host:port or a URL. An https scheme forces TLS.
func parseEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("minio: invalid endpoint URL: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("minio: endpoint %q has no host", endpoint)
	}
	return u.Host, u.Scheme == "https" || (u.Scheme != "http" && useSSL), nil
}

func (c *Client) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	size := input.Size
	if size <= 0 {
		size = -1
	}
	info, err := c.client.PutObject(ctx, input.Bucket, input.Key, input.Body, size, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("minio upload: %w", err)
	}
	return &port.UploadOutput{
		Location: c.ObjectURL(input.Bucket, input.Key),
		ETag:     info.ETag,
	}, nil
}

func (c *Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio download: %w", classify(err))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("minio download read: %w", classify(err))
	}
	return data, nil
}

func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	if err := c.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete: %w", classify(err))
	}
	return nil
}

func (c *Client) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, bucket, key, time.Duration(expirySeconds)*time.Second, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}

func (c *Client) ObjectURL(bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, bucket, strings.Join(parts, "/"))
}

func classify(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, resp.Message)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("endpoint unreachable: %w", err)
	}
	return err
}
