package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret   = []byte(getEnv("JWT_SECRET", "development-insecure-secret-change-me"))
	jwtIssuer   = getEnv("JWT_ISSUER", "product-catalog-api")
	jwtAudience = getEnv("JWT_AUDIENCE", "product-catalog-clients")
)

// tokenTTL bounds how long an issued admin session stays valid.
const tokenTTL = 24 * time.Hour

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// AdminClaims identifies the admin account a token was issued to.
// The catalog has no end-user accounts; tokens only ever gate mutations.
type AdminClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed admin token.
func GenerateToken(adminID, username string) (string, error) {
	nowTs := time.Now()
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(nowTs.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(nowTs),
			NotBefore: jwt.NewNumericDate(nowTs),
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{jwtAudience},
			Subject:   adminID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ValidateToken checks signature, expiry, issuer and audience, and returns
// the admin claims. Parser options carry the registered-claim checks, so a
// token minted for another service fails here rather than in the handlers.
func ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.AdminID == "" {
		return nil, errors.New("token carries no admin identity")
	}
	return claims, nil
}
