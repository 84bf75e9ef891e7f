package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

func jwtKey() []byte {
	return []byte(os.Getenv("KEY"))
}

// GenerateToken signs a JWT carrying the user's email claim. The token
// is what the mobile client stores after login/signup.
func GenerateToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"Email": email,
	})
	return token.SignedString(jwtKey())
}

// decodeToken validates a raw JWT string and extracts the email claim.
func decodeToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtKey(), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, ok := claims["Email"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// AuthRequired guards the /auth group: it expects an
// "Authorization: Bearer <jwt>" header and aborts with 401 otherwise.
func AuthRequired(c *gin.Context) {
	if _, err := JWT_decoder(c); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// JWT_decoder extracts and validates the Bearer token of a request,
// returning the email of the authenticated user.
func JWT_decoder(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", ErrInvalidToken
	}
	return decodeToken(strings.TrimPrefix(header, "Bearer "))
}

// Socketio_JWT_decoder does the same for a socket.io handshake, where
// the token arrives in the auth payload instead of an HTTP header.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	raw, ok := authData["authorization"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	return decodeToken(strings.TrimPrefix(raw, "Bearer "))
}
