/* JWT 토큰 생성 및 검증을 위한 유틸리티 함수들 */

package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "churnradar-api"

var (
	mu       sync.RWMutex
	jwtKey   = []byte("default_secret_key")
	tokenTTL = 24 * time.Hour
)

// Init sets the signing key and token lifetime. Called once at startup.
func Init(key []byte, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	jwtKey = key
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func signingKey() []byte {
	mu.RLock()
	defer mu.RUnlock()
	return jwtKey
}

// Claims 구조체 정의, JWT 페이로드에 사용자명 포함
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWT 토큰 생성
func GenerateToken(username string) (string, error) {
	mu.RLock()
	ttl := tokenTTL
	mu.RUnlock()

	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ErrTokenExpired is returned by ValidateToken for a well-formed but expired token.
var ErrTokenExpired = errors.New("token has expired")

// JWT 토큰 검증
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Username == "" {
		claims.Username = claims.Subject
	}
	return claims, nil
}
