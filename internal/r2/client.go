package r2

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"net/url"
	"path"
	"path/filepath"

	"quizimport/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Client archives imported source documents to Cloudflare R2 so a failed or
// disputed import can be re-run from the original files.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	publicURL  string
}

// NewClient creates and configures a new R2 client instance.
// It returns (nil, nil) when the R2 settings are not fully configured,
// allowing the service to run with source archival disabled.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.R2AccountID == "" || cfg.R2BucketName == "" || cfg.R2AccessKeyID == "" ||
		cfg.R2SecretAccessKey == "" || cfg.R2PublicURL == "" {
		log.Println("WARN: Cloudflare R2 not fully configured. Source document archival will be skipped.")
		return nil, nil
	}

	// Custom endpoint resolver for Cloudflare R2
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	log.Printf("INFO: R2 client initialized for bucket '%s'", cfg.R2BucketName)
	return &Client{
		s3Client:   s3.NewFromConfig(awsCfg),
		bucketName: cfg.R2BucketName,
		publicURL:  cfg.R2PublicURL,
	}, nil
}

// ArchiveSourceDocument uploads one uploaded source file under
// "imports/<quizID>/<importID>/<filename>" and returns its public URL.
func (c *Client) ArchiveSourceDocument(ctx context.Context, quizID, importID uuid.UUID, filename string, data []byte) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("R2 client not initialized")
	}

	objectKey := fmt.Sprintf("imports/%s/%s/%s", quizID, importID, filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to R2 (key: %s): %w", objectKey, err)
	}

	baseURL, err := url.Parse(c.publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid R2 public base URL configured: %w", err)
	}
	baseURL.Path = path.Join(baseURL.Path, objectKey)

	log.Printf("INFO: Archived source document to R2: %s", baseURL.String())
	return baseURL.String(), nil
}
