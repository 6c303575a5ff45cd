package aliyun_oss

import (
	"bytes"
	"io"
	"time"

	"github.com/IxSyZ/my-life-diary/pkg/fileurl"

	"github.com/pkg/errors"
)

// SendFile 上传文件流到 OSS
func (p *OSS) SendFile(fileKey string, file io.Reader, contentType string, modTime time.Time) (string, error) {
	if p.Bucket == nil {
		if err := p.GetBucket(""); err != nil {
			return "", errors.Wrap(err, "aliyun_oss")
		}
	}
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
	if err := p.Bucket.PutObject(fileKey, file); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return fileKey, nil
}

// SendContent 上传二进制内容到 OSS
func (p *OSS) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	if p.Bucket == nil {
		if err := p.GetBucket(""); err != nil {
			return "", errors.Wrap(err, "aliyun_oss")
		}
	}
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
	if err := p.Bucket.PutObject(fileKey, bytes.NewReader(content)); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return fileKey, nil
}
