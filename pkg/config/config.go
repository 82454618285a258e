package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/porch/config"
	ConfigFileName    = "porch.yml"
)

// PorchConfig holds all Porch configuration settings
type PorchConfig struct {
	// DatabaseURL is the postgres:// or sqlite:// URL of the database
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// BindAddress is the address the HTTP server binds to
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port int `yaml:"port" json:"port"`

	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogJSON switches log output to JSON
	LogJSON bool `yaml:"log_json" json:"log_json"`

	// AdminPrivilege is the privilege required by administrative endpoints
	AdminPrivilege string `yaml:"admin_privilege" json:"admin_privilege"`

	// GitHubAPIURL points account imports at a GitHub Enterprise instance
	GitHubAPIURL string `yaml:"github_api_url" json:"github_api_url"`

	// JenkinsTimeout is the timeout for requests to build servers, in seconds
	JenkinsTimeout int `yaml:"jenkins_timeout" json:"jenkins_timeout"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *PorchConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *PorchConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() (*PorchConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

func newDefault() *PorchConfig {
	return &PorchConfig{
		BindAddress:    "0.0.0.0",
		Port:           8000,
		LogLevel:       "info",
		AdminPrivilege: "admin",
		JenkinsTimeout: 30,
		TrustedProxies: []string{},
		sources:        make(map[string]string),
	}
}

// FilePath returns the configuration file location, honouring PORCH_CONFIG_PATH
func FilePath() string {
	configPath := os.Getenv("PORCH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*PorchConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	config.configFilePath = FilePath()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig PorchConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// A missing .env file is not an error; existing variables win.
	_ = godotenv.Load()

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "bind_address", "port", "log_level", "log_json",
		"admin_privilege", "github_api_url", "jenkins_timeout", "trusted_proxies",
	}
}

func (c *PorchConfig) applyFileConfig(file *PorchConfig) {
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogJSON {
		c.LogJSON = true
		c.sources["log_json"] = "file"
	}
	if file.AdminPrivilege != "" {
		c.AdminPrivilege = file.AdminPrivilege
		c.sources["admin_privilege"] = "file"
	}
	if file.GitHubAPIURL != "" {
		c.GitHubAPIURL = file.GitHubAPIURL
		c.sources["github_api_url"] = "file"
	}
	if file.JenkinsTimeout != 0 {
		c.JenkinsTimeout = file.JenkinsTimeout
		c.sources["jenkins_timeout"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *PorchConfig) applyEnvConfig() {
	if val := firstEnv("PORCH_DATABASE_URL", "DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("PORCH_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := firstEnv("PORCH_PORT", "PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("PORCH_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("PORCH_LOG_JSON"); val != "" {
		c.LogJSON = val == "true" || val == "1"
		c.sources["log_json"] = "environment"
	}
	if val := os.Getenv("PORCH_ADMIN_PRIVILEGE"); val != "" {
		c.AdminPrivilege = val
		c.sources["admin_privilege"] = "environment"
	}
	if val := os.Getenv("PORCH_GITHUB_API_URL"); val != "" {
		c.GitHubAPIURL = val
		c.sources["github_api_url"] = "environment"
	}
	if val := os.Getenv("PORCH_JENKINS_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.JenkinsTimeout = i
			c.sources["jenkins_timeout"] = "environment"
		}
	}
	if val := os.Getenv("PORCH_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *PorchConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *PorchConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Addr returns the host:port the HTTP server listens on
func (c *PorchConfig) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// JenkinsRequestTimeout returns the build server timeout as a duration
func (c *PorchConfig) JenkinsRequestTimeout() time.Duration {
	return time.Duration(c.JenkinsTimeout) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *PorchConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *PorchConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.JenkinsTimeout < 0 {
		return fmt.Errorf("invalid jenkins_timeout: %d", c.JenkinsTimeout)
	}

	if c.AdminPrivilege == "" {
		return fmt.Errorf("admin_privilege must not be empty")
	}

	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "sqlite://") {
		u, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("invalid database_url: %w", err)
		}
		switch u.Scheme {
		case "postgres", "postgresql":
		default:
			return fmt.Errorf("unsupported database_url scheme: %q", u.Scheme)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *PorchConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_json", Value: strconv.FormatBool(c.LogJSON), Source: c.Source("log_json")},
		{Name: "admin_privilege", Value: c.AdminPrivilege, Source: c.Source("admin_privilege")},
		{Name: "github_api_url", Value: c.GitHubAPIURL, Source: c.Source("github_api_url")},
		{Name: "jenkins_timeout", Value: strconv.Itoa(c.JenkinsTimeout), Source: c.Source("jenkins_timeout")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *PorchConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *PorchConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// redactURL hides the password of a database URL
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
