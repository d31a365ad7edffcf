package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/pkg/response"
)

const identityKey = "identity"

// Identity 上游认证层给出的身份与角色声明
type Identity struct {
	UserID string
	Role   model.Role
}

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth 校验 Bearer token 并把身份写入请求上下文
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "access denied, no token provided")
			c.Abort()
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid || claims.UserID == "" {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{UserID: claims.UserID, Role: model.Role(claims.Role)})
		c.Next()
	}
}

// RequireRole 角色门卫；须在 Auth 之后挂载
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok || id.Role != role {
			response.Forbidden(c, "access denied, insufficient privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity 取出 Auth 写入的身份
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// SignToken 签发 HMAC token（测试与种子工具用；正式签发在上游认证层）
func SignToken(secret, userID string, role model.Role, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// 兼容旧客户端的 x-auth-token 头
	return c.GetHeader("x-auth-token")
}
