package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword 使用 bcrypt 生成带盐哈希；cost 低于默认值时提升到 DefaultCost
func HashPassword(pw string, cost int) (string, error) {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
