package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/parsley.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName     = "parsley.yaml"
	TOMLConfigurationName = "parsley.toml"
)

type Configuration struct {
	configFs afero.Fs
	// Directory the configuration was loaded from, empty for in-memory
	// configurations.
	dir string

	Prompt         string   `json:"prompt" toml:"prompt" validate:"required"`
	HereDocPrompt  string   `json:"heredoc_prompt" toml:"heredoc_prompt"`
	HistoryFile    string   `json:"history_file" toml:"history_file"`
	Color          string   `json:"color" toml:"color" validate:"oneof=always auto never"`
	Format         string   `json:"format" toml:"format" validate:"oneof=tree yaml json"`
	EventLog       string   `json:"event_log" toml:"event_log"`
	SSHPort        int      `json:"ssh_port" toml:"ssh_port" validate:"gte=0,lte=65535"`
	HostKeyPath    string   `json:"host_key_path" toml:"host_key_path" validate:"required"`
	Password       string   `json:"password" toml:"password"`
	AuthorizedKeys []string `json:"authorized_keys" toml:"authorized_keys" validate:"dive,required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := c.PublicKeys(); err != nil {
		return err
	}
	return nil
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// PromptFor renders the command prompt for the n-th command.
func (c *Configuration) PromptFor(n int) string {
	if strings.Contains(c.Prompt, "%d") {
		return fmt.Sprintf(c.Prompt, n)
	}
	return c.Prompt
}

// HistoryPath returns the OS path of the readline history file, or an empty
// string if history shouldn't be persisted.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" || c.dir == "" {
		return ""
	}
	return filepath.Join(c.dir, c.HistoryFile)
}

// PrivateKeyPem returns the bytes of the SSH host key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), c.HostKeyPath)
}

// HasEventLog reports whether events should be recorded.
func (c *Configuration) HasEventLog() bool {
	return c.EventLog != ""
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// PublicKeys parses the authorized keys.
func (c *Configuration) PublicKeys() ([]ssh.PublicKey, error) {
	var out []ssh.PublicKey
	for i, line := range c.AuthorizedKeys {
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("authorized_keys[%d]: %w", i, err)
		}
		out = append(out, key)
	}
	return out, nil
}

// Default returns the built-in configuration, backed by an in-memory
// filesystem.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
