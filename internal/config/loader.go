package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default settings file name.
const DefaultConfigFile = ".storescan"

// ErrConfigNotFound is returned when the settings file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// APISettings holds the clearance service endpoint read from the settings
// file. The key names match the original deployment's config
// (api.cf_host, api.cf_port).
type APISettings struct {
	// CFHost is the clearance service host.
	CFHost string `yaml:"cf_host"`

	// CFPort is the clearance service port.
	CFPort int `yaml:"cf_port"`
}

// File represents the structure of the .storescan settings file.
type File struct {
	// API configures the clearance bypass service endpoint.
	API APISettings `yaml:"api"`

	// Defaults contains extraction rules applied to every site unless
	// overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps hostnames to site-specific extraction rules.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist it returns ErrConfigNotFound. Callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Sites == nil {
		f.Sites = make(map[string]SiteConfig)
	}

	return &f, nil
}

// FindConfigFile searches for the settings file in the following order:
// 1. The explicit path, when given
// 2. .storescan in the current directory
// 3. .storescan in the XDG config directory
//
// Returns the path if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyFile copies file settings into the config, then applies environment
// overrides. A .env file in the working directory is honored first, which
// matches how the original deployment ran inside containers.
//
// Precedence, lowest to highest: built-in defaults, settings file,
// environment variables (CF_HOST, CF_PORT).
func (c *Config) ApplyFile(f *File) {
	if f != nil {
		if f.API.CFHost != "" {
			c.ClearanceHost = f.API.CFHost
		}
		if f.API.CFPort != 0 {
			c.ClearancePort = f.API.CFPort
		}
		c.Sites = f
	}

	// Missing .env is the normal case, not an error.
	_ = godotenv.Load() //nolint:errcheck

	if host := os.Getenv("CF_HOST"); host != "" {
		c.ClearanceHost = host
	}
	if port := os.Getenv("CF_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			c.ClearancePort = n
		}
	}
}
