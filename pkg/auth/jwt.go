package auth

import (
	"errors"
	"time"

	"loteria-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	SubjectID int64 `json:"subjectId"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed user token. The token id (jti) doubles as the
// session key stored in Redis, so logout can revoke it.
func GenerateToken(userID int64) (token string, tokenID string, err error) {
	duration := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	tokenID = uuid.NewString()
	claims := Claims{
		SubjectID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.GlobalConfig.JWT.Secret))
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
