package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider stores files in an S3 bucket, for deployments where generated
// bills and templates must survive instance restarts
type S3Provider struct {
	client     *s3.Client
	bucketName string
	region     string
	baseURL    string
}

// NewS3Provider creates a new AWS S3 provider
func NewS3Provider(accessKeyID, secretAccessKey, region, bucketName string) (*S3Provider, error) {
	ctx := context.Background()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Provider{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     region,
		baseURL:    fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, region),
	}, nil
}

// Save uploads the content to the bucket under folder/filename
func (p *S3Provider) Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredFile, error) {
	key := folder + "/" + filename

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeByExt(filename)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &StoredFile{
		Path:     key,
		FileName: filename,
		Size:     int64(len(data)),
		URL:      p.URL(key),
	}, nil
}

// SaveMultipart validates and uploads a multipart file
func (p *S3Provider) SaveMultipart(ctx context.Context, fileHeader *multipart.FileHeader, folder string, allowedTypes []string, maxSize int64) (*StoredFile, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !typeAllowed(contentType, allowedTypes) {
		return nil, fmt.Errorf("file type not allowed: %s", contentType)
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed size: %d bytes", maxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return p.Save(ctx, folder, filepath.Base(fileHeader.Filename), file)
}

// Open streams an object's content from the bucket
func (p *S3Provider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from S3: %w", err)
	}
	return resp.Body, nil
}

// Delete removes an object from the bucket
func (p *S3Provider) Delete(ctx context.Context, path string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// URL returns the public URL for an object key
func (p *S3Provider) URL(path string) string {
	return p.baseURL + "/" + path
}

// LocalPath is never available for S3
func (p *S3Provider) LocalPath(path string) (string, bool) {
	return "", false
}

// GetProviderName returns the provider name
func (p *S3Provider) GetProviderName() string {
	return "AWS S3"
}

func contentTypeByExt(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}
