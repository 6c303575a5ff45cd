// Package global 持有跨包共享的进程级状态
package global

import (
	"fmt"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
	"go.uber.org/zap"
)

// Logger 进程级日志器，由启动流程注入
var Logger *zap.Logger

func Log() *zap.Logger {
	return Logger
}

// Dump 调试输出，带调用位置前缀
func Dump(values ...any) {
	if _, file, line, ok := runtime.Caller(1); ok {
		fmt.Printf("\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.P(values...)
}
