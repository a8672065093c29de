package authutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"approval-flow-backend/lib/utils/errs"
)

func TestTokenProvider(t *testing.T) {
	provider := NewTokenProvider("test-secret", 60, 120)

	t.Run(`выпуск и проверка access токена`, func(t *testing.T) {
		token, err := provider.GetToken("user-1", "Иван")
		require.Nil(t, err)
		userID, err := provider.VerifyToken(token, TokenTypeAccess)
		require.Nil(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run(`выпуск и проверка refresh токена`, func(t *testing.T) {
		token, err := provider.GetRefreshToken("user-1", "Иван")
		require.Nil(t, err)
		userID, err := provider.VerifyToken(token, TokenTypeRefresh)
		require.Nil(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run(`refresh токен не проходит как access`, func(t *testing.T) {
		token, err := provider.GetRefreshToken("user-1", "Иван")
		require.Nil(t, err)
		_, err = provider.VerifyToken(token, TokenTypeAccess)
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidToken, kind)
	})

	t.Run(`просроченный токен отклоняется`, func(t *testing.T) {
		expired := NewTokenProvider("test-secret", -60, -60)
		token, err := expired.GetToken("user-1", "Иван")
		require.Nil(t, err)
		_, err = provider.VerifyToken(token, TokenTypeAccess)
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidToken, kind)
	})

	t.Run(`токен с чужой подписью отклоняется`, func(t *testing.T) {
		other := NewTokenProvider("other-secret", 60, 120)
		token, err := other.GetToken("user-1", "Иван")
		require.Nil(t, err)
		_, err = provider.VerifyToken(token, TokenTypeAccess)
		require.NotNil(t, err)
	})

	t.Run(`мусор вместо токена отклоняется`, func(t *testing.T) {
		_, err := provider.VerifyToken("not-a-token", TokenTypeAccess)
		require.NotNil(t, err)
	})
}
