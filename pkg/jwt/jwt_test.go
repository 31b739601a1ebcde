package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "bodeguero", "inventory-pro", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, "inventory-pro", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "bodeguero", claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "admin", "inventory-pro", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", "inventory-pro", tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = jwt.Parse(secret, "otro-emisor", tok)
	assert.Error(t, err, "issuer distinto")

	expired, err := jwt.Generate(secret, "u-1", "admin", "inventory-pro", -1)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, "", expired)
	assert.Error(t, err, "token expirado")

	_, err = jwt.Generate("", "u-1", "admin", "", 5)
	assert.Error(t, err)
}
