package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckSecret(t *testing.T) {
	hash, err := HashSecret("provider-shared-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "provider-shared-secret", hash)

	assert.True(t, CheckSecret("provider-shared-secret", hash))
	assert.False(t, CheckSecret("wrong-secret", hash))
	assert.False(t, CheckSecret("", hash))
	assert.False(t, CheckSecret("provider-shared-secret", "not-a-bcrypt-hash"))
}
