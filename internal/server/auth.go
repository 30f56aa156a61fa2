package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is stamped into browser session tokens and required on validation
const tokenIssuer = "aura-explorer"

// Session roles. An owner may import, delete and mint tokens; a viewer only
// browses, filters and chats. The API key always acts as owner.
const (
	RoleOwner  = "owner"
	RoleViewer = "viewer"
)

// JWTClaims are the claims of an explorer session token
type JWTClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// AuthService authenticates explorer clients by API key or session token
type AuthService struct {
	apiKey    string
	jwtSecret []byte
}

// NewAuthService creates an auth service. The secret signs session tokens.
func NewAuthService(apiKey, jwtSecret string) *AuthService {
	return &AuthService{
		apiKey:    apiKey,
		jwtSecret: []byte(jwtSecret),
	}
}

// ValidateAPIKey reports whether key is the owner API key
func (a *AuthService) ValidateAPIKey(key string) bool {
	return key != "" && key == a.apiKey
}

// GenerateToken mints a session token for a browser tab with the given role
func (a *AuthService) GenerateToken(role string, duration time.Duration) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken checks signature, expiry and issuer of a session token
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ValidRole reports whether role can be put in a token
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleViewer
}

// ExtractToken extracts the token from the Authorization header. Browsers
// cannot set headers on EventSource, so the query parameter is accepted too.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}

	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}
