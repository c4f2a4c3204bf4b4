package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const mediaKeyPrefix = "media/"

// MediaStore uploads binary blobs and deletes them again by their public URL.
// Satisfied by S3Service in production and by fakes in tests.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// S3Service stores media blobs in S3 under extension-less "media/<id>" keys.
// Keeping the key free of an extension means the public id recovered from a
// URL's last path segment (minus any extension) maps straight back onto the
// object key, which is how deletion works.
type S3Service struct {
	Client  *s3.Client
	Bucket  string
	BaseURL string
}

// NewS3Service builds an S3-backed media store from the environment
// (AWS_REGION, S3_BUCKET_NAME, optional S3_PUBLIC_BASE_URL override).
func NewS3Service() *S3Service {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	bucket := os.Getenv("S3_BUCKET_NAME")
	baseURL := os.Getenv("S3_PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, os.Getenv("AWS_REGION"))
	}

	return &S3Service{
		Client:  s3.NewFromConfig(cfg),
		Bucket:  bucket,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the blob and returns its stable public URL.
func (s *S3Service) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: cannot upload empty file", ErrInvalidInput)
	}

	key := mediaKeyPrefix + uuid.New().String()
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media object: %w", err)
	}

	publicURL := s.BaseURL + "/" + key
	log.Printf("Media uploaded successfully. URL: %s", publicURL)
	return publicURL, nil
}

// Delete removes the blob a public URL points at. The object key is rebuilt
// from the URL's public id; URLs that do not carry a usable last path segment
// fail here and the caller decides whether that is fatal.
func (s *S3Service) Delete(ctx context.Context, publicURL string) error {
	publicID, err := PublicIDFromURL(publicURL)
	if err != nil {
		return err
	}

	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(mediaKeyPrefix + publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media object '%s': %w", publicID, err)
	}

	log.Printf("Deleted media object with public id: %s", publicID)
	return nil
}

// PublicIDFromURL extracts the public media id from a URL: the last path
// segment minus its file extension.
func PublicIDFromURL(publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", fmt.Errorf("%w: empty media URL", ErrInvalidInput)
	}

	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed media URL %q", ErrInvalidInput, publicURL)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "", fmt.Errorf("%w: media URL %q has no path segment", ErrInvalidInput, publicURL)
	}

	if dot := strings.LastIndex(last, "."); dot > 0 {
		last = last[:dot]
	}
	return last, nil
}
