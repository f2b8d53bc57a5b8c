package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateMasterKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")

	first, err := LoadOrCreateMasterKey(path)
	require.NoError(t, err)
	assert.Len(t, first, masterKeySize)

	second, err := LoadOrCreateMasterKey(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVault_SealedRoundTrip(t *testing.T) {
	s := setupTestStore(t, BackendBolt)
	key, err := LoadOrCreateMasterKey(filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)

	v := NewVault(s, key)
	require.NoError(t, v.SetSecret(KeyGitHubToken, "gho_secret"))

	raw, err := s.Get(KeyGitHubToken)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, EncPrefix))
	assert.NotContains(t, raw, "gho_secret")

	got, err := v.GetSecret(KeyGitHubToken)
	require.NoError(t, err)
	assert.Equal(t, "gho_secret", got)
}

func TestVault_BoundToStorageKey(t *testing.T) {
	s := setupTestStore(t, BackendBolt)
	v := NewVault(s, make([]byte, masterKeySize))

	require.NoError(t, v.SetSecret("a", "value"))
	raw, err := s.Get("a")
	require.NoError(t, err)

	// moving a sealed value to another key must not open
	require.NoError(t, s.Set("b", raw))
	_, err = v.GetSecret("b")
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestVault_OpenWithoutKey(t *testing.T) {
	s := setupTestStore(t, BackendSQLite)
	v := NewVault(s, nil)

	require.NoError(t, v.SetSecret(KeyMSToken, "plain"))
	raw, err := s.Get(KeyMSToken)
	require.NoError(t, err)
	assert.Equal(t, OpenPrefix+"plain", raw)

	got, err := v.GetSecret(KeyMSToken)
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
}

func TestVault_JSON(t *testing.T) {
	type token struct {
		AccessToken string `json:"access_token"`
	}

	v := NewVault(setupTestStore(t, BackendBolt), make([]byte, masterKeySize))

	missing, err := GetSecretJSON[token](v, KeyGoogleToken)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, SetSecretJSON(v, KeyGoogleToken, token{AccessToken: "ya29"}))

	got, err := GetSecretJSON[token](v, KeyGoogleToken)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ya29", got.AccessToken)
}
