package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

var CfgPath = os.ExpandEnv("$HOME/.config/dbkit/")
var CfgFile = filepath.Join(CfgPath, "config.yaml")

type Config struct {
	CurrentConnection string                     `yaml:"current_connection"`
	Connections       map[string]*ConnectionYAML `yaml:"connections"`
	Style             Style                      `yaml:"style"`

	path string
}

type Style struct {
	Accent string `yaml:"accent_color"`
}

// LoadConfig reads the config at path. A missing file yields a blank
// config, which is written out on the spot.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{
				Connections: make(map[string]*ConnectionYAML),
				path:        path,
			}
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Connections == nil {
		cfg.Connections = make(map[string]*ConnectionYAML)
	}
	for name, conn := range cfg.Connections {
		if conn == nil {
			conn = &ConnectionYAML{Name: name}
			cfg.Connections[name] = conn
		}
		if conn.Name == "" {
			conn.Name = name
		}
		if conn.Queries == nil {
			conn.Queries = make(map[string]Query)
		}
	}
	cfg.path = path
	return &cfg, nil
}

func (c *Config) Path() string {
	if c.path == "" {
		return CfgFile
	}
	return c.path
}

func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	// the file may hold passwords
	return os.WriteFile(path, data, 0o600)
}

// Current returns the active connection.
func (c *Config) Current() (*ConnectionYAML, error) {
	if c.CurrentConnection == "" {
		return nil, fmt.Errorf("no active connection, use 'dbkit switch <connection>' or 'dbkit init' first")
	}
	conn, ok := c.Connections[c.CurrentConnection]
	if !ok {
		return nil, fmt.Errorf("connection '%s' does not exist", c.CurrentConnection)
	}
	return conn, nil
}

// AddConnection stores conn under its name and makes it current.
func (c *Config) AddConnection(conn *ConnectionYAML) error {
	if conn.Queries == nil {
		conn.Queries = make(map[string]Query)
	}
	c.Connections[conn.Name] = conn
	c.CurrentConnection = conn.Name
	return c.Save()
}

func (c *Config) Switch(name string) (*ConnectionYAML, error) {
	conn, ok := c.Connections[name]
	if !ok {
		return nil, fmt.Errorf("connection '%s' does not exist", name)
	}
	c.CurrentConnection = name
	return conn, c.Save()
}

func (c *Config) RemoveConnection(name string) error {
	if _, ok := c.Connections[name]; !ok {
		return fmt.Errorf("connection '%s' does not exist", name)
	}
	delete(c.Connections, name)
	if c.CurrentConnection == name {
		c.CurrentConnection = ""
	}
	return c.Save()
}
