package webdav

import (
	"github.com/IxSyZ/my-life-diary/pkg/fileurl"
)

func (w *WebDAV) Delete(fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey
	return w.Client.Remove(fileKey)
}
