package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID 记录主键（uuid v4 字符串）
func NewID() string { return uuid.NewString() }

// RandomHex 返回 n 字节随机数的十六进制编码
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
