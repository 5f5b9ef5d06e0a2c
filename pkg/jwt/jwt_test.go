package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := Generate("secreto", "u1", "c1", RoleSeller, "ventas-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", "ventas-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, RoleSeller, claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("secreto", "u1", "c1", RoleAdmin, "ventas-api", 5)
	require.NoError(t, err)
	expired, err := Generate("secreto", "u1", "c1", RoleAdmin, "ventas-api", -1)
	require.NoError(t, err)
	noCompany, err := Generate("secreto", "u1", "", RoleAdmin, "ventas-api", 5)
	require.NoError(t, err)

	cases := map[string]struct {
		secret, issuer, token string
	}{
		"firma incorrecta": {"otro", "ventas-api", tok},
		"emisor distinto":  {"secreto", "otro-emisor", tok},
		"expirado":         {"secreto", "ventas-api", expired},
		"sin empresa":      {"secreto", "ventas-api", noCompany},
		"basura":           {"secreto", "", "no.es.jwt"},
	}
	for name, tc := range cases {
		_, err := Parse(tc.secret, tc.issuer, tc.token)
		assert.Error(t, err, name)
	}
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "c1", RoleAdmin, "", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)
	_, err = Parse("", "", "x")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
