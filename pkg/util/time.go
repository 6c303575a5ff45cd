package util

import (
	"strconv"
	"strings"
	"time"
)

// GetZeroTime gets 00:00:00 of the day the given time falls on
// GetZeroTime 获取传入时间所在日期的零点时间
func GetZeroTime(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// GetEndTime gets 23:59:59 of the day the given time falls on
// GetEndTime 获取传入时间所在日期的 23:59:59
func GetEndTime(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// GetFirstDateOfMonth gets the first day of the month the given time falls on,
// truncated to midnight
// GetFirstDateOfMonth 获取传入时间所在月份的第一天零点
func GetFirstDateOfMonth(d time.Time) time.Time {
	return GetZeroTime(d.AddDate(0, 0, -d.Day()+1))
}

// TimeParse parses a time string in the local timezone
// TimeParse 按本地时区解析时间字符串
func TimeParse(layout string, in string) time.Time {
	local, _ := time.LoadLocation("Local")
	timer, _ := time.ParseInLocation(layout, in, local)
	return timer
}

// ParseDuration parses a duration string. Beyond the standard units it
// accepts a 'd' (day) suffix, and bare numbers are treated as seconds.
// ParseDuration 解析时长字符串，额外支持 'd' (天) 后缀，纯数字按秒处理
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
