package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// loadLocation 解析配置的 IANA 时区，无效或缺省时退回服务器本地时区。
// 分组视图与按天导出共用，保证两者的日界一致。
func loadLocation(config *ServiceConfig, logger *zap.Logger) *time.Location {
	if config == nil || config.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(config.App.Timezone)
	if err != nil {
		if logger != nil {
			logger.Warn("invalid timezone, using server local time",
				zap.String("timezone", config.App.Timezone),
				zap.Error(err))
		}
		return time.Local
	}
	return loc
}

// EntryChangeListener observes per-user journal mutations. Listeners run on
// their own goroutine; a slow listener never blocks the mutating request.
// EntryChangeListener 观察按用户的日记变更，监听器在独立 goroutine 中执行。
type EntryChangeListener func(uid int64)

var (
	entryChangeMu        sync.RWMutex
	entryChangeListeners []EntryChangeListener
)

// RegisterEntryChangeListener subscribes to journal mutations. The websocket
// layer registers the snapshot broadcaster here, the backup and git mirror
// services register their debounce triggers.
// RegisterEntryChangeListener 订阅日记变更；WebSocket 层注册快照广播，
// 备份与 Git 镜像服务注册各自的防抖触发。
func RegisterEntryChangeListener(fn EntryChangeListener) {
	if fn == nil {
		return
	}
	entryChangeMu.Lock()
	defer entryChangeMu.Unlock()
	entryChangeListeners = append(entryChangeListeners, fn)
}

// notifyEntryChange 在条目变更落库后触发全部监听器
func notifyEntryChange(uid int64) {
	entryChangeMu.RLock()
	listeners := make([]EntryChangeListener, len(entryChangeListeners))
	copy(listeners, entryChangeListeners)
	entryChangeMu.RUnlock()

	for _, fn := range listeners {
		go fn(uid)
	}
}

// ResetEntryChangeListeners 清空监听器，仅测试使用
func ResetEntryChangeListeners() {
	entryChangeMu.Lock()
	defer entryChangeMu.Unlock()
	entryChangeListeners = nil
}
