package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signed(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestParseToken(t *testing.T) {
	p := New(secret)

	t.Run("ValidToken", func(t *testing.T) {
		header := "Bearer " + signed(t, gojwt.MapClaims{"sub": "auth0|abc"})

		sub, err := p.ParseToken(header)
		require.NoError(t, err)
		assert.Equal(t, "auth0|abc", sub)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		_, err := p.ParseToken("")
		require.ErrorIs(t, err, ErrMissingAuthHeader)
	})

	t.Run("NotBearer", func(t *testing.T) {
		_, err := p.ParseToken("Basic abc")
		require.ErrorIs(t, err, ErrInvalidAuthHeader)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"sub": "x"})
		s, err := other.SignedString([]byte("different-secret"))
		require.NoError(t, err)

		_, err = p.ParseToken("Bearer " + s)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		header := "Bearer " + signed(t, gojwt.MapClaims{"aud": "dealtracker"})

		_, err := p.ParseToken(header)
		require.ErrorIs(t, err, ErrMissingSubjectClaim)
	})
}

func TestCheckPermission(t *testing.T) {
	p := New(secret)

	t.Run("HasPermission", func(t *testing.T) {
		header := "Bearer " + signed(t, gojwt.MapClaims{
			"sub":         "auth0|abc",
			"permissions": []string{"post:deals", "post:filters"},
		})

		require.NoError(t, p.CheckPermission(header, "post:deals"))
	})

	t.Run("LacksPermission", func(t *testing.T) {
		header := "Bearer " + signed(t, gojwt.MapClaims{
			"sub":         "auth0|abc",
			"permissions": []string{"post:filters"},
		})

		require.ErrorIs(t, p.CheckPermission(header, "post:deals"), ErrMissingPermission)
	})

	t.Run("NoPermissionsClaim", func(t *testing.T) {
		header := "Bearer " + signed(t, gojwt.MapClaims{"sub": "auth0|abc"})

		require.ErrorIs(t, p.CheckPermission(header, "post:deals"), ErrPermissionsWrongShape)
	})
}
