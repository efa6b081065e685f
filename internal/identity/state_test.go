package identity

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	first, err := generateState()
	require.NoError(t, err)
	second, err := generateState()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(first), 32, "state must satisfy minimum-length providers")
	assert.NotEqual(t, first, second)
}

func makeIDToken(t *testing.T, claims map[string]string) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + encoded + ".signature"
}

func TestDecodeIDTokenClaims(t *testing.T) {
	token := makeIDToken(t, map[string]string{
		"sub":                "subject-1",
		"email":              "user@example.com",
		"preferred_username": "user.principal@example.com",
	})

	claims, err := decodeIDTokenClaims(token)

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.accountIdentity())
}

func TestAccountIdentity_FallbackOrder(t *testing.T) {
	tests := []struct {
		name   string
		claims idTokenClaims
		want   string
	}{
		{
			name:   "email preferred",
			claims: idTokenClaims{Subject: "s", Email: "e@x.com", PreferredUsername: "p@x.com"},
			want:   "e@x.com",
		},
		{
			name:   "username when no email",
			claims: idTokenClaims{Subject: "s", PreferredUsername: "p@x.com"},
			want:   "p@x.com",
		},
		{
			name:   "subject as last resort",
			claims: idTokenClaims{Subject: "s"},
			want:   "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.accountIdentity())
		})
	}
}

func TestDecodeIDTokenClaims_Malformed(t *testing.T) {
	_, err := decodeIDTokenClaims("not-a-jwt")
	assert.Error(t, err)

	_, err = decodeIDTokenClaims("a.!!!.c")
	assert.Error(t, err)
}
