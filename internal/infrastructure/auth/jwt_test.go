package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func testActor() shared.Actor {
	return shared.Actor{
		CompanyID:   7,
		UserID:      3,
		IsOwner:     true,
		Permissions: []string{"view_payment", "edit_payment"},
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateToken(testActor())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.CompanyID)
	assert.Equal(t, uint64(3), claims.UserID)
	assert.Equal(t, "3", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, testActor(), claims.Actor())
}

func TestValidateToken_Errors(t *testing.T) {
	svc := newTestJWTService()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() *Claims {
		now := time.Now()
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			CompanyID: 1,
			UserID:    1,
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "invalid-token" },
			want:  ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			want: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				c := valid()
				c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			want: ErrTokenNotYetValid,
		},
		{
			name: "different secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("another-secret-also-32-characters!"), valid())
			},
			want: ErrInvalidToken,
		},
		{
			name: "different signing method",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid())
			},
			want: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := valid()
				c.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			want: ErrInvalidToken,
		},
		{
			name: "missing company",
			token: func(t *testing.T) string {
				c := valid()
				c.CompanyID = 0
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			want: ErrMissingCompanyID,
		},
		{
			name: "missing user",
			token: func(t *testing.T) string {
				c := valid()
				c.UserID = 0
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			want: ErrMissingUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_ActorCopiesPermissions(t *testing.T) {
	claims := &Claims{CompanyID: 1, UserID: 2, Permissions: []string{"view_all"}}
	actor := claims.Actor()
	actor.Permissions[0] = "edit_all"

	assert.Equal(t, "view_all", claims.Permissions[0])
}

func TestExpiration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, newTestJWTService().Expiration())
}
