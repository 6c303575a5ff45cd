package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// EncodeMD5 对字符串进行 MD5 编码，返回 32 位十六进制字符串
func EncodeMD5(str string) string {
	h := md5.New()
	h.Write([]byte(str))
	return hex.EncodeToString(h.Sum(nil))
}

// EncodeHash32 computes the same 32-bit rolling hash the web client uses,
// so both sides can compare entry text without shipping the full content.
// EncodeHash32 计算与前端一致的 32 位滚动哈希，用于正文变更检测
func EncodeHash32(content string) string {
	var hash int32 = 0
	// 按 UTF-16 code point 处理以匹配 JS 端的实现
	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		char := int32(runes[i])
		hash = (hash << 5) - hash + char
	}
	return strconv.Itoa(int(hash))
}
