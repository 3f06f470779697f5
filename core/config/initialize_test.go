package config

import (
	"bytes"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	loaded, err := Load(filepath.Join(tempDir, ConfigurationName))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg.Prompt, loaded.Prompt)

	t.Run("PrivateKeyPem", func(t *testing.T) {
		keyPem, err := cfg.PrivateKeyPem()
		require.Nil(t, err)

		signer, err := ssh.ParsePrivateKey(keyPem)
		require.NoError(t, err)
		assert.Equal(t, ssh.KeyAlgoED25519, signer.PublicKey().Type())
	})

	t.Run("HistoryPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(tempDir, ".parsley_history"), cfg.HistoryPath())
	})

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Close()
	})
}

func TestInitializeKeepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, ConfigurationName, []byte("format: json\n"), 0600))

	var logs bytes.Buffer
	require.NoError(t, InitializeFs(fsys, log.New(&logs, "", 0)))
	assert.Contains(t, logs.String(), "parsley.yaml already exists, skipping")
	assert.Contains(t, logs.String(), "Writing host_key")

	cfg, err := LoadFs(fsys)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	firstKey, err := cfg.PrivateKeyPem()
	require.NoError(t, err)

	require.NoError(t, InitializeFs(fsys, log.New(ioutil.Discard, "", 0)))
	secondKey, err := cfg.PrivateKeyPem()
	require.NoError(t, err)
	assert.Equal(t, firstKey, secondKey, "host key must not be regenerated")
}
