package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserRoleKey = "user_role"
	UserIDKey   = "user_id"
	UserNameKey = "user_name"

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ExtractUserContext lê os headers injetados pelo Istio após validar o JWT:
// X-User-ID e X-User-Role. Valores já extraídos do token não são sobrescritos.
func ExtractUserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" && GetUserID(c) == "" {
			c.Set(UserIDKey, userID)
		}

		if role := c.GetHeader("X-User-Role"); role != "" && GetUserRole(c) == "" {
			c.Set(UserRoleKey, strings.ToUpper(role))
		}

		c.Next()
	}
}

// GetUserRole retorna o role do usuário (ADMIN ou USER)
func GetUserRole(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}

// GetUserID retorna o ID único do usuário
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequireRole middleware que verifica se o usuário tem uma das roles necessárias
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRole(c)

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":          "Acesso negado: permissão insuficiente",
			"roles_required": roles,
			"user_role":      userRole,
		})
		c.Abort()
	}
}
