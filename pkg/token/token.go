package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token 已过期，请重新登录获取")
	ErrTokenInvalid = errors.New("token 无效")
)

// Claims 平台管理员 JWT 声明
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwtv5.RegisteredClaims
}

// Inspect 对配置中的管理员 Token 做本地检查
//
// 仅解析、不验签：签名校验由服务端完成，这里只为了在发起任何请求前
// 就能对过期或格式错误的 Token 给出明确提示。
func Inspect(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	parser := jwtv5.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
