package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// Load reads a YAML configuration file over the defaults. ${VAR} references
// are replaced with environment values before parsing.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return nil, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "failed to read config file").
			WithDetail("file", filePath)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), cfg); err != nil {
		return nil, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("file", filePath)
	}
	return cfg, nil
}

// Save writes cfg to a YAML file.
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeWriteFailure, "failed to write config file").
			WithDetail("file", filePath)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var sb strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		sb.WriteString(content[:start])
		sb.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	sb.WriteString(content)
	return sb.String()
}
