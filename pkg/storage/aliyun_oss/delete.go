package aliyun_oss

import (
	"github.com/IxSyZ/my-life-diary/pkg/fileurl"

	"github.com/pkg/errors"
)

func (p *OSS) Delete(fileKey string) error {
	if p.Bucket == nil {
		if err := p.GetBucket(""); err != nil {
			return errors.Wrap(err, "aliyun_oss")
		}
	}
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
	return errors.Wrap(p.Bucket.DeleteObject(fileKey), "aliyun_oss")
}
