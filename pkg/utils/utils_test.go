package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("dogs", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "dogs", h)
	assert.True(t, CheckPassword("dogs", h))
	assert.False(t, CheckPassword("cats", h))
}

func TestHashPassword_RaisesLowCost(t *testing.T) {
	h, err := HashPassword("dogs", 4)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(20)
	require.NoError(t, err)
	b, err := RandomHex(20)
	require.NoError(t, err)
	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
