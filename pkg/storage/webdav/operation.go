package webdav

import (
	"io"
	"os"
	"path"
	"time"

	"github.com/IxSyZ/my-life-diary/pkg/fileurl"

	"github.com/pkg/errors"
)

// SendFile 将文件流上传到 WebDAV 服务器
func (w *WebDAV) SendFile(fileKey string, file io.Reader, contentType string, modTime time.Time) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if err := w.Client.MkdirAll(path.Dir(fileKey), 0644); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.WriteStream(fileKey, file, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return fileKey, nil
}

// SendContent 将二进制内容上传到 WebDAV 服务器
func (w *WebDAV) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if err := w.Client.MkdirAll(path.Dir(fileKey), 0644); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(fileKey, content, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return fileKey, nil
}
