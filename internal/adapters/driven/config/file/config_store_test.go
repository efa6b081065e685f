package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmptyNotError(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, settings.API.BaseURL)
	assert.Empty(t, settings.Identity.ClientID)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://stock.example.com"

[identity]
client_id = "client-1"
authority = "https://login.example.com/tenant"
api_scope = "api://stock/.default"
callback_port = 3100
`), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://stock.example.com", settings.API.BaseURL)
	assert.Equal(t, "client-1", settings.Identity.ClientID)
	assert.Equal(t, "api://stock/.default", settings.Identity.APIScope)
	assert.Equal(t, 3100, settings.Identity.CallbackPort)
}

func TestLoadEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://stock.example.com"

[identity]
client_id = "from-file"
`), 0600))

	t.Setenv("STOCKCTL_CLIENT_ID", "from-env")
	t.Setenv("STOCKCTL_CALLBACK_PORT", "4200")

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Identity.ClientID)
	assert.Equal(t, 4200, settings.Identity.CallbackPort)
	assert.Equal(t, "https://stock.example.com", settings.API.BaseURL)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	saved := Settings{
		API:      APISettings{BaseURL: "https://stock.example.com"},
		Identity: IdentitySettings{ClientID: "client-1", Authority: "https://login.example.com", APIScope: "scope"},
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}
