// Package password 封装 bcrypt 密码哈希
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher 按固定 cost 生成与校验 bcrypt 哈希
type Hasher struct {
	cost int
}

// NewHasher 创建 Hasher，cost 超出 bcrypt 允许范围时回退为默认值
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 生成加盐哈希
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("密码哈希失败: %w", err)
	}
	return string(b), nil
}

// Verify 校验明文与哈希是否匹配
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
