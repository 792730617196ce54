// Package credential 密码哈希与重置令牌的签发/过期判断
package credential

import (
	"time"

	"shop-api/pkg/utils"
)

const (
	DefaultCost     = 10
	DefaultResetTTL = time.Hour
	resetTokenBytes = 20
)

type Manager struct {
	Cost     int
	ResetTTL time.Duration
	Now      func() time.Time
}

func NewManager(cost int, resetTTL time.Duration) *Manager {
	if cost <= 0 {
		cost = DefaultCost
	}
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &Manager{Cost: cost, ResetTTL: resetTTL, Now: func() time.Time { return time.Now().UTC() }}
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now()
}

func (m *Manager) HashPassword(plain string) (string, error) {
	return utils.HashPassword(plain, m.Cost)
}

func (m *Manager) VerifyPassword(plain, hash string) bool {
	return utils.CheckPassword(plain, hash)
}

// IssueResetToken 20 字节随机数 hex 编码，有效期 ResetTTL
func (m *Manager) IssueResetToken() (string, time.Time, error) {
	tok, err := utils.RandomHex(resetTokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, m.now().Add(m.ResetTTL), nil
}

// Usable now <= expiry
func (m *Manager) Usable(expiry time.Time) bool {
	return !m.now().After(expiry)
}

// Clock 当前时间，供仓储做过期比较
func (m *Manager) Clock() time.Time { return m.now() }
