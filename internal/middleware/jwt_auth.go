package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
)

// JWTClaims representa os claims do JWT usados pela vitrine
type JWTClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	ResourceAccess    struct {
		Superapp struct {
			Roles []string `json:"roles"`
		} `json:"superapp"`
	} `json:"resource_access"`
}

// ForwardBearerToken repassa o token do chamador ao backend do catálogo.
// Requisições sem token seguem normalmente; claims legíveis preenchem o contexto do usuário.
func ForwardBearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		ctx := catalog.WithAccessToken(c.Request.Context(), token)
		c.Request = c.Request.WithContext(ctx)

		if claims, err := parseJWTClaims(token); err == nil {
			setClaims(c, claims)
		}

		c.Next()
	}
}

// JWTAuthMiddleware exige um JWT legível e extrai usuário e role.
// Não valida assinatura: a validação é feita no gateway.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			c.Abort()
			return
		}

		claims, err := parseJWTClaims(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido: " + err.Error()})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func setClaims(c *gin.Context, claims *JWTClaims) {
	c.Set(UserIDKey, claims.Subject)
	c.Set(UserNameKey, claims.Name)
	c.Set(UserRoleKey, extractPrimaryRole(claims))
}

// parseJWTClaims decodifica os claims do JWT sem validar assinatura
func parseJWTClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// extractPrimaryRole traduz as roles do superapp para ADMIN ou USER
func extractPrimaryRole(claims *JWTClaims) string {
	for _, role := range claims.ResourceAccess.Superapp.Roles {
		if role == "go:admin" {
			return RoleAdmin
		}
	}
	return RoleUser
}
