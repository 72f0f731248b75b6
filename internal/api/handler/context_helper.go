package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"tanker-ledger/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenMeta 提取当前 Access Token 的 JTI 与过期时间（登出用）
func MustGetTokenMeta(c *gin.Context) (string, time.Time, bool) {
	jti, ok := c.Get("token_jti")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	exp, ok := c.Get("token_exp")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	jtiStr, ok1 := jti.(string)
	expTime, ok2 := exp.(time.Time)
	if !ok1 || !ok2 || jtiStr == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jtiStr, expTime, true
}
