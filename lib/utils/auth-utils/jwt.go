package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"approval-flow-backend/lib/utils/errs"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenProvider выпускает и проверяет JWT (кодек токенов).
// Создается один раз при старте из конфигурации
type TokenProvider struct {
	secret             []byte
	accessExpireInSec  int
	refreshExpireInSec int
}

func NewTokenProvider(secret string, accessExpireInSec, refreshExpireInSec int) *TokenProvider {
	return &TokenProvider{
		secret:             []byte(secret),
		accessExpireInSec:  accessExpireInSec,
		refreshExpireInSec: refreshExpireInSec,
	}
}

func (p *TokenProvider) GetToken(userID, name string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": name,
		"sub":  userID,
		"type": TokenTypeAccess,
		"exp":  time.Now().Add(time.Second * time.Duration(p.accessExpireInSec)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *TokenProvider) GetRefreshToken(userID, name string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": name,
		"sub":  userID,
		"type": TokenTypeRefresh,
		"exp":  time.Now().Add(time.Second * time.Duration(p.refreshExpireInSec)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// VerifyToken проверяет подпись, срок действия и тип токена, возвращает субъект (ид пользователя)
func (p *TokenProvider) VerifyToken(tokenString, tokenType string) (userID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.New(errs.KindInvalidToken, "неожиданный метод подписи токена")
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errs.New(errs.KindInvalidToken, "токен недействителен")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errs.New(errs.KindInvalidToken, "токен недействителен")
	}
	if claims["type"] != tokenType {
		return "", errs.New(errs.KindInvalidToken, "неверный тип токена")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errs.New(errs.KindInvalidToken, "токен недействителен")
	}
	return sub, nil
}

func (p *TokenProvider) Secret() []byte {
	return p.secret
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	return token.Claims.(jwt.MapClaims)
}
