package password_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-admin/pkg/password"
)

func TestHashCompare(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.NoError(t, h.Compare(hash, "secreto123"))
	assert.ErrorIs(t, h.Compare(hash, "otro"), password.ErrMismatch)
}

func TestGenerate(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := password.Generate()
		require.NoError(t, err)
		assert.Regexp(t, re, p)
		seen[p] = true
	}
	assert.Greater(t, len(seen), 45)
}
