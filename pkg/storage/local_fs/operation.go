package local_fs

import (
	"io"
	"os"
	"time"

	"github.com/IxSyZ/my-life-diary/pkg/fileurl"

	"github.com/pkg/errors"
)

// SendFile 将文件写入本地保存目录，并保留原始修改时间
func (p *LocalFS) SendFile(fileKey string, file io.Reader, contentType string, modTime time.Time) (string, error) {
	dstFileKey := p.getSavePath() + fileKey

	if err := fileurl.CreatePath(dstFileKey, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dstFileKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if _, err = io.Copy(out, file); err != nil {
		out.Close()
		return "", errors.Wrap(err, "local_fs")
	}
	out.Close()

	if !modTime.IsZero() {
		if err := os.Chtimes(dstFileKey, modTime, modTime); err != nil {
			return "", errors.Wrap(err, "local_fs")
		}
	}
	return dstFileKey, nil
}

// SendContent 将二进制内容写入本地保存目录
func (p *LocalFS) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	dstFileKey := p.getSavePath() + fileKey

	if err := fileurl.CreatePath(dstFileKey, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.WriteFile(dstFileKey, content, 0644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(dstFileKey, modTime, modTime); err != nil {
			return "", errors.Wrap(err, "local_fs")
		}
	}
	return dstFileKey, nil
}
