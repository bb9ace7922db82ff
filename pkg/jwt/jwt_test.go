package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := Generate("secreto", "u-1", "ASESOR", "vio-app", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "ASESOR", role)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := Generate("secreto", "u-1", "ASESOR", "vio-app", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)

	expired, err := Generate("secreto", "u-1", "ASESOR", "vio-app", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", expired)
	assert.Error(t, err)

	_, _, err = Parse("", token)
	assert.Error(t, err)

	_, err = Generate("", "u-1", "ASESOR", "vio-app", 5)
	assert.Error(t, err)
}
