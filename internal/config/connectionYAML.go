package config

import (
	"os"
	"strings"

	"github.com/eduardofuncao/dbkit/pkg/connector"
)

type ConnectionYAML struct {
	Name      string            `yaml:"name"`
	DBType    string            `yaml:"db_type"`
	Target    string            `yaml:"target"`
	User      string            `yaml:"user,omitempty"`
	Password  string            `yaml:"password,omitempty"`
	LibDir    string            `yaml:"lib_dir,omitempty"`
	Options   map[string]string `yaml:"options,omitempty"`
	Queries   map[string]Query  `yaml:"queries"`
	LastQuery Query             `yaml:"last_query"`
}

// ConnectionConfig resolves ${VAR} references and returns the connector
// settings. Secrets can stay in the environment instead of the file.
func (yc *ConnectionYAML) ConnectionConfig() connector.ConnectionConfig {
	var opts map[string]string
	if len(yc.Options) > 0 {
		opts = make(map[string]string, len(yc.Options))
		for k, v := range yc.Options {
			opts[k] = substituteEnvVars(v)
		}
	}
	return connector.ConnectionConfig{
		User:     substituteEnvVars(yc.User),
		Password: substituteEnvVars(yc.Password),
		Target:   substituteEnvVars(yc.Target),
		Options:  opts,
	}
}

func (yc *ConnectionYAML) NativeClientConfig() connector.NativeClientConfig {
	return connector.NativeClientConfig{LibDir: substituteEnvVars(yc.LibDir)}
}

// Connector builds the connector for this connection. No I/O happens
// except the Oracle native client initialization.
func (yc *ConnectionYAML) Connector(opts ...connector.Option) (connector.Connector, error) {
	return connector.New(yc.DBType, yc.ConnectionConfig(), yc.NativeClientConfig(), opts...)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
func substituteEnvVars(content string) string {
	var b strings.Builder
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

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
