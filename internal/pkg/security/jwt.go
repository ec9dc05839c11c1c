package security

import (
	"Atelier/internal/api/config"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const JWTExpirationTime = time.Hour * 24

var (
	ErrSecretNotSet = errors.New("jwt secret 未配置")
	ErrTokenInvalid = errors.New("token 无效或已过期")
)

var (
	jwtSecret []byte
	jwtIssuer = "Atelier"
)

// Init 从配置读取签名密钥，只在启动时调用
func Init(cfg config.JWTConfig) error {
	if cfg.Secret == "" {
		return ErrSecretNotSet
	}
	jwtSecret = []byte(cfg.Secret)
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	return nil
}

// GenerateToken 生成一个新的 JWT Token
func GenerateToken(userID uint64) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrSecretNotSet
	}
	now := time.Now()
	claims := &UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(JWTExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrSecretNotSet
	}
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
