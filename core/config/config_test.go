package config

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		assert.Equal(t, jsonTag, field.Tag.Get("toml"), "toml and json names differ for %s", field.Name)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "(3)$ ", cfg.PromptFor(3))
	assert.Empty(t, cfg.HistoryPath(), "in-memory configurations have no history file")
}

func TestPromptWithoutCounter(t *testing.T) {
	cfg := Default()
	cfg.Prompt = "$ "
	assert.Equal(t, "$ ", cfg.PromptFor(7))
}

func TestLoadFs(t *testing.T) {
	cases := map[string]struct {
		files    map[string]string
		expected func(*Configuration)
		errMsg   string
	}{
		"yaml overrides defaults": {
			files: map[string]string{
				ConfigurationName: "format: json\nssh_port: 2022\n",
			},
			expected: func(c *Configuration) {
				c.Format = "json"
				c.SSHPort = 2022
			},
		},
		"toml": {
			files: map[string]string{
				TOMLConfigurationName: "color = \"never\"\nprompt = \"> \"\n",
			},
			expected: func(c *Configuration) {
				c.Color = "never"
				c.Prompt = "> "
			},
		},
		"yaml wins over toml": {
			files: map[string]string{
				ConfigurationName:     "format: yaml\n",
				TOMLConfigurationName: "format = \"json\"\n",
			},
			expected: func(c *Configuration) {
				c.Format = "yaml"
			},
		},
		"unknown yaml field": {
			files:  map[string]string{ConfigurationName: "colour: never\n"},
			errMsg: "unknown field",
		},
		"unknown toml field": {
			files:  map[string]string{TOMLConfigurationName: "colour = \"never\"\n"},
			errMsg: "unknown fields: colour",
		},
		"invalid color": {
			files:  map[string]string{ConfigurationName: "color: sometimes\n"},
			errMsg: "'color' failed on the 'oneof' tag",
		},
		"invalid port": {
			files:  map[string]string{ConfigurationName: "ssh_port: 70000\n"},
			errMsg: "'ssh_port' failed on the 'lte' tag",
		},
		"invalid authorized key": {
			files:  map[string]string{ConfigurationName: "authorized_keys: [\"not a key\"]\n"},
			errMsg: "authorized_keys[0]",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for name, contents := range tc.files {
				require.NoError(t, afero.WriteFile(fsys, name, []byte(contents), 0600))
			}

			actual, err := LoadFs(fsys)
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)

			expected := defaultConfig()
			expected.configFs = fsys
			tc.expected(expected)
			assert.Equal(t, expected, actual)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs())
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	_, err = Load(t.TempDir())
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestEventLog(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasEventLog())

	w, err := cfg.OpenEventLog()
	require.NoError(t, err)
	_, err = w.WriteString("{}\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := cfg.ReadEventLog()
	require.NoError(t, err)
	defer r.Close()
	contents, err := afero.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(contents))

	cfg.EventLog = ""
	assert.False(t, cfg.HasEventLog())
}
