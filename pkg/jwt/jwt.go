package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reisy1999/musatoku-thanks/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "musatoku-thanks"

// Claims 自定义 JWT 声明，sub 为社员编号
type Claims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwtv5.RegisteredClaims
}

// Subject 签发 Token 所需的用户信息
type Subject struct {
	UserID     uint
	EmployeeID string
	IsAdmin    bool
}

// Manager JWT 管理器
type Manager struct {
	secret         []byte
	accessTokenTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// TTL 返回 Access Token 有效期
func (m *Manager) TTL() time.Duration { return m.accessTokenTTL }

// GenerateAccessToken 以当前时间签发 Access Token
func (m *Manager) GenerateAccessToken(sub Subject) (string, error) {
	return m.GenerateAccessTokenAt(sub, time.Now())
}

// GenerateAccessTokenAt 以指定时间签发 Access Token，exp = now + TTL
func (m *Manager) GenerateAccessTokenAt(sub Subject, now time.Time) (string, error) {
	claims := Claims{
		UserID:  sub.UserID,
		IsAdmin: sub.IsAdmin,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sub.EmployeeID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 以当前时间解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	return m.ParseTokenAt(tokenString, time.Now())
}

// ParseTokenAt 以指定时间解析并验证 Token
func (m *Manager) ParseTokenAt(tokenString string, now time.Time) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	},
		jwtv5.WithTimeFunc(func() time.Time { return now }),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithIssuer(issuer),
	)

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
