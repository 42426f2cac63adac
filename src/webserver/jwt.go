package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ctxDRep is the gin context key holding the caller's DRep id.
const ctxDRep = "drep"

const tokenTTL = time.Hour

func parseToken(header string, secret []byte) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tok, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	drep, _ := claims[ctxDRep].(string)
	return drep, drep != ""
}

// OptionalJWT sets the DRep id when a valid token is present.
func OptionalJWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if drep, ok := parseToken(c.GetHeader("Authorization"), secret); ok {
			c.Set(ctxDRep, drep)
		}
		c.Next()
	}
}

// RequireDRep rejects requests without an authenticated DRep id.
func RequireDRep() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxDRep) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "authentication required"})
			return
		}
		c.Next()
	}
}

func issueJWT(drep string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ctxDRep: drep,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(secret)
}
