package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure
type Claims struct {
	PengurusID uint   `json:"pengurus_id"`
	KomplekID  uint   `json:"komplek_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that validates JWT tokens
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader == "" {
			// Download links pass the token as a query param.
			tokenString = c.Query("token")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "header Authorization wajib diisi",
				})
				return
			}
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "format header Authorization tidak valid",
				})
				return
			}
			tokenString = parts[1]
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set("pengurusID", claims.PengurusID)
		c.Set("komplekID", claims.KomplekID)
		c.Set("pengurusEmail", claims.Email)
		c.Set("pengurusRole", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// validateToken parses and validates a JWT token string
func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("metode tanda tangan tidak valid")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token kedaluwarsa")
		}
		return nil, errors.New("token tidak valid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token tidak valid")
	}

	return claims, nil
}

// GetPengurusID extracts the pengurus ID from the Gin context
func GetPengurusID(c *gin.Context) uint {
	id, exists := c.Get("pengurusID")
	if !exists {
		return 0
	}
	return id.(uint)
}

// GetKomplekID extracts the komplek ID from the Gin context
func GetKomplekID(c *gin.Context) uint {
	id, exists := c.Get("komplekID")
	if !exists {
		return 0
	}
	return id.(uint)
}

// GetPengurusRole extracts the pengurus role from the Gin context
func GetPengurusRole(c *gin.Context) string {
	role, exists := c.Get("pengurusRole")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsAdmin checks if the current pengurus is a komplek administrator
func IsAdmin(c *gin.Context) bool {
	return GetPengurusRole(c) == "admin"
}

// RequireAdmin returns a middleware that requires the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "anda tidak memiliki akses ke bagian ini",
			})
			return
		}
		c.Next()
	}
}

// RequireRole returns a middleware that requires one of the given roles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetPengurusRole(c)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "anda tidak memiliki akses ke bagian ini",
		})
	}
}

// RequireBendahara returns a middleware for cash book mutations: admin and
// bendahara only.
func RequireBendahara() gin.HandlerFunc {
	return RequireRole("admin", "bendahara")
}
