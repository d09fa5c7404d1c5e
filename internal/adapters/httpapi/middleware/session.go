package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"reelprofile/internal/core/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionMiddleware توکن Bearer را می‌خواند و نشست صریح را در context قرار می‌دهد.
// بدون توکن نشست ناشناس ساخته می‌شود؛ توکن نامعتبر 401 است.
func SessionMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(sessionKey, session.Anonymous())
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess := session.Start(claims.Subject)
		// با پایان نشست، کلاینت باید توکن و داده‌های ذخیره شده را پاک کند
		sess.OnEnd(func() { c.Header("Clear-Site-Data", `"cookies", "storage"`) })
		c.Set(sessionKey, sess)
		c.Set("userID", claims.Subject)
		c.Next()
	}
}

// SessionFrom نشست درخواست؛ اگر middleware اجرا نشده باشد نشست ناشناس
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return session.Anonymous()
}
