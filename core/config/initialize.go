package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// Initialize writes the default configuration and an SSH host key into dir.
// Existing files are left alone.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := afero.NewOsFs().MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)
	if err := InitializeFs(fsys, logger); err != nil {
		return nil, err
	}
	return Load(dir)
}

// InitializeFs writes the default configuration and an SSH host key into the
// root of fsys.
func InitializeFs(fsys afero.Fs, logger *log.Logger) error {
	logger.Println("Initializing configuration")

	if err := writeIfMissing(fsys, ConfigurationName, logger, func() ([]byte, error) {
		return defaultConfigData, nil
	}); err != nil {
		return err
	}

	cfg, err := LoadFs(fsys)
	if err != nil {
		return err
	}

	return writeIfMissing(fsys, cfg.HostKeyPath, logger, generateHostKey)
}

func writeIfMissing(fsys afero.Fs, name string, logger *log.Logger, contents func() ([]byte, error)) error {
	switch _, err := fsys.Stat(name); {
	case err == nil:
		logger.Printf("- %s already exists, skipping", name)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	data, err := contents()
	if err != nil {
		return err
	}

	logger.Printf("- Writing %s", name)
	return afero.WriteFile(fsys, name, data, 0600)
}

func generateHostKey() ([]byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := ssh.MarshalPrivateKey(key, "parsley host key")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
