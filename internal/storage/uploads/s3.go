package uploads

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the part of *s3.Client the S3 store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Uploads keeps files in a bucket. Keys are stored under prefix and
// served from publicURL.
type S3Uploads struct {
	client    ObjectAPI
	bucket    string
	prefix    string
	publicURL string
}

// NewS3 builds a store using the default AWS credential chain.
func NewS3(ctx context.Context, bucket, region, prefix, publicURL string) (*S3Uploads, error) {
	const op = "storage.uploads.NewS3"

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}

	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, prefix, publicURL), nil
}

func NewS3WithClient(client ObjectAPI, bucket, prefix, publicURL string) *S3Uploads {
	return &S3Uploads{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (u *S3Uploads) objectKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "/") {
		return "", ErrInvalidFileName
	}
	return u.prefix + key, nil
}

func (u *S3Uploads) Save(ctx context.Context, data []byte, key string) error {
	const op = "storage.uploads.s3.Save"

	if len(data) == 0 {
		return ErrInvalidFile
	}

	objKey, err := u.objectKey(key)
	if err != nil {
		return err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objKey),
		ContentType: aws.String(http.DetectContentType(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (u *S3Uploads) Delete(ctx context.Context, key string) error {
	const op = "storage.uploads.s3.Delete"

	objKey, err := u.objectKey(key)
	if err != nil {
		return err
	}

	_, err = u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (u *S3Uploads) URL(key string) string {
	if key == "" {
		return ""
	}
	return u.publicURL + "/" + u.prefix + url.PathEscape(key)
}
