package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func publicURL(objectKey string) string {
	base := os.Getenv("R2_PUBLIC_URL")
	if base == "" {
		base = "https://cdn.petphoto.app"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), objectKey)
}

// R2Uploader generation.Uploader'ı sağlar; gateway sonuçları buradan
// kalıcı URL'e döner.
type R2Uploader struct{}

func (R2Uploader) Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error) {
	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("could not upload object to R2: %v", err)
	}

	return publicURL(objectKey), nil
}

type UploadPhotoConfig struct {
	Filename    string
	UserName    string
	Body        io.Reader
	ContentType string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

// UploadPetPhoto kullanıcının yüklediği kaynak fotoğrafı R2'ye koyar.
func UploadPetPhoto(config UploadPhotoConfig) (UploadResult, error) {
	safeUserName := slug.Make(config.UserName)
	if safeUserName == "" {
		safeUserName = "user"
	}

	ext := filepath.Ext(config.Filename)
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	uniqueFilename := uniqueID + ext

	objectKey := filepath.Join("uploads", safeUserName, uniqueFilename)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        config.Body,
		ContentType: aws.String(config.ContentType),
	}

	if _, err := client.PutObject(context.TODO(), input); err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:      publicURL(objectKey),
		ObjectID: uniqueID,
	}, nil
}

func DeleteObject(fullURL string) error {
	objectKey := getObjectKeyFromURL(fullURL)

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	if _, err := client.DeleteObject(context.TODO(), input); err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

func getObjectKeyFromURL(url string) string {
	base := os.Getenv("R2_PUBLIC_URL")
	if base == "" {
		base = "https://cdn.petphoto.app"
	}
	return strings.TrimPrefix(url, strings.TrimRight(base, "/")+"/")
}
