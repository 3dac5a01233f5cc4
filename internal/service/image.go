package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/recipe-share/backend/config"
)

// MaxImageSize is the largest accepted recipe image.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectUploader is the subset of the S3 client used for uploads.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores recipe images in S3.
type ImageService struct {
	uploader ObjectUploader
	bucket   string
	urlFor   func(key string) string
}

// NewImageService creates an ImageService backed by the configured bucket.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return NewImageServiceWithUploader(s3Config.Client, s3Config.BucketName, s3Config.ObjectURL)
}

// NewImageServiceWithUploader creates an ImageService over any uploader.
func NewImageServiceWithUploader(uploader ObjectUploader, bucket string, urlFor func(key string) string) *ImageService {
	return &ImageService{
		uploader: uploader,
		bucket:   bucket,
		urlFor:   urlFor,
	}
}

// UploadRecipeImage stores the image read from r under the recipe's prefix
// and returns its public URL. The content type is sniffed from the data.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), ext)
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.urlFor(key)
	log.Printf("[ImageService] Uploaded image for recipe %s to %s", recipeID, publicURL)
	return publicURL, nil
}
