package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// GeneratePasswordHash generates the bcrypt hash of a password
// GeneratePasswordHash 生成密码的 bcrypt 哈希值
func GeneratePasswordHash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a password against a stored hash
// CheckPasswordHash 校验密码与存储的哈希是否匹配
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
