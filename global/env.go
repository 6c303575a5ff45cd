package global

import (
	"github.com/IxSyZ/my-life-diary/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT          string
	Name          string = "My Life Diary"
	WebClientName string = "Web"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
