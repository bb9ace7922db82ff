package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestToken_EmiteJWTValido(t *testing.T) {
	out, err := run(t, "token", "--user", "u-7", "--role", "LIDER_DISENO", "--secret", "s3cr3t", "--minutes", "5")
	require.NoError(t, err)

	userID, role, err := jwt.Parse("s3cr3t", out)
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
	assert.Equal(t, "LIDER_DISENO", role)
}

func TestToken_RolDesconocido(t *testing.T) {
	_, err := run(t, "token", "--user", "u-7", "--role", "GERENTE", "--secret", "s3cr3t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GERENTE")
}

func TestToken_FlagsRequeridos(t *testing.T) {
	_, err := run(t, "token", "--secret", "s3cr3t")
	assert.Error(t, err)
}
