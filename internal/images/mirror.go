package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sahafa/newsroom/internal/config"
)

// Mirror copies generated images from the upstream provider's short-lived
// URLs into the R2 bucket so the dashboard keeps working after they expire.
type Mirror struct {
	s3        *s3.Client
	http      *resty.Client
	bucket    string
	publicURL string
	endpoint  string
}

func NewMirror(ctx context.Context, cfg *config.Config) (*Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading R2 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return &Mirror{
		s3:        client,
		http:      resty.New().SetTimeout(30 * time.Second),
		bucket:    cfg.R2Bucket,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
		endpoint:  strings.TrimSuffix(cfg.R2Endpoint, "/"),
	}, nil
}

// MirrorFromURL downloads the image and re-uploads it under a fresh key,
// returning the bucket URL.
func (m *Mirror) MirrorFromURL(ctx context.Context, srcURL string) (string, error) {
	resp, err := m.http.R().SetContext(ctx).Get(srcURL)
	if err != nil {
		return "", fmt.Errorf("downloading image: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("unexpected status %d downloading image", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}
	key := fmt.Sprintf("generated/%s%s", uuid.NewString(), extensionFor(contentType))

	return m.Upload(ctx, key, resp.Body(), contentType)
}

// Upload stores raw image bytes and returns the public URL.
func (m *Mirror) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := m.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	if m.publicURL != "" {
		return m.publicURL + "/" + key, nil
	}
	return fmt.Sprintf("%s/%s/%s", m.endpoint, m.bucket, key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
