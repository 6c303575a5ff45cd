package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/IxSyZ/my-life-diary/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// SendFile 上传文件流到 MinIO
func (p *MinIO) SendFile(fileKey string, file io.Reader, contentType string, modTime time.Time) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey

	_, err := p.S3Client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(p.Config.BucketName),
		Key:         aws.String(fileKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "minio")
	}
	return fileKey, nil
}

// SendContent 上传二进制内容到 MinIO
func (p *MinIO) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey

	_, err := p.S3Client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(fileKey),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return "", errors.Wrap(err, "minio")
	}
	return fileKey, nil
}
