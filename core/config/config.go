package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"webboot/core/logger"
	"webboot/core/server"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the launcher.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the embedded web server.
	Server server.Config `mapstructure:"server"`
	// Boot holds configuration for environment probing and server selection.
	Boot Boot `mapstructure:"boot"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// Boot holds configuration for the environment prober and the launcher itself.
type Boot struct {
	// Classpath is the resource search path, entries separated by os.PathListSeparator.
	// Empty means the default search path derived from the executable layout.
	Classpath string `mapstructure:"classpath" default:""`
	// ScanTestClasses also accepts test-classes folders as class locations.
	ScanTestClasses bool `mapstructure:"scan_test_classes" default:"false"`
	// DisableClassScanning skips class location resolution entirely.
	DisableClassScanning bool `mapstructure:"disable_class_scanning" default:"false"`
	// WebServer selects the embedded web server: fiber or gin.
	WebServer string `mapstructure:"web_server" default:"fiber"`
}

// Key describes one tunable: its internal key and the names it can be overridden by.
type Key struct {
	// Name is the internal key, e.g. server.context_path.
	Name string
	// Properties are the property-style names, e.g. server.servlet.context-path.
	Properties []string
	// Env are the environment variable names, checked in order.
	Env []string
}

// Keys lists every recognized tunable.
var Keys = []Key{
	{Name: "server.port", Properties: []string{"server.port"}, Env: []string{"SERVER_PORT"}},
	{Name: "server.address", Properties: []string{"server.address"}, Env: []string{"SERVER_ADDRESS"}},
	{
		Name:       "server.context_path",
		Properties: []string{"server.servlet.context-path"},
		Env:        []string{"SERVER_SERVLET_CONTEXT-PATH", "SERVER_SERVLET_CONTEXT_PATH"},
	},
	{Name: "server.open_browser", Properties: []string{"server.open-browser"}, Env: []string{"SERVER_OPEN_BROWSER"}},
	{Name: "boot.classpath", Properties: []string{"boot.classpath"}, Env: []string{"BOOT_CLASSPATH"}},
	{Name: "boot.scan_test_classes", Properties: []string{"boot.scan-test-classes"}, Env: []string{"BOOT_SCAN_TEST_CLASSES"}},
	{Name: "boot.disable_class_scanning", Properties: []string{"boot.disable-class-scanning"}, Env: []string{"BOOT_DISABLE_CLASS_SCANNING"}},
	{Name: "boot.web_server", Properties: []string{"boot.web-server"}, Env: []string{"BOOT_WEB_SERVER"}},
	{Name: "log.level", Properties: []string{"log.level"}, Env: []string{"LOG_LEVEL"}},
	{Name: "log.format", Properties: []string{"log.format"}, Env: []string{"LOG_FORMAT"}},
}

// Sources are the inputs the configuration is resolved from, highest priority first:
// Properties, then LookupEnv, then the .env file, then the struct tag defaults.
type Sources struct {
	// Properties are -Dkey=value style overrides.
	Properties map[string]string
	// LookupEnv resolves environment variables. Nil means no environment.
	LookupEnv func(key string) (string, bool)
	// DotEnvPath is an optional .env file; a missing file is ignored.
	DotEnvPath string
}

// OSSources returns sources backed by the process environment and the .env file in path.
func OSSources(path string, properties map[string]string) Sources {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}
	return Sources{
		Properties: properties,
		LookupEnv:  os.LookupEnv,
		DotEnvPath: envPath,
	}
}

// LoadConfig loads configuration from the process environment, the .env file in path
// and the given properties.
func LoadConfig(path string, properties map[string]string) (*Config, error) {
	return Load(OSSources(path, properties))
}

// Load resolves the configuration from the given sources.
func Load(src Sources) (*Config, error) {
	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Ignore error if file doesn't exist (e.g. production)
	var dotEnv map[string]string
	if src.DotEnvPath != "" {
		dotEnv, _ = godotenv.Read(src.DotEnvPath)
	}

	envLayer := map[string]any{}
	for _, k := range Keys {
		if val, ok := lookupEnv(src, dotEnv, k.Env); ok {
			setNested(envLayer, k.Name, val)
		}
	}
	if err := v.MergeConfigMap(envLayer); err != nil {
		return nil, fmt.Errorf("failed to merge environment: %w", err)
	}

	for _, k := range Keys {
		if val, ok := lookupProperty(src.Properties, k); ok {
			v.Set(k.Name, val)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	srv, err := config.Server.Normalize()
	if err != nil {
		return nil, err
	}
	config.Server = srv

	return &config, nil
}

// ParseProperties parses key=value pairs as passed via -D flags.
func ParseProperties(pairs []string) (map[string]string, error) {
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", pair)
		}
		props[key] = value
	}
	return props, nil
}

func lookupProperty(props map[string]string, k Key) (string, bool) {
	for _, name := range k.Properties {
		if val := strings.TrimSpace(props[name]); val != "" {
			return val, true
		}
	}
	if val := strings.TrimSpace(props[k.Name]); val != "" {
		return val, true
	}
	return "", false
}

func lookupEnv(src Sources, dotEnv map[string]string, names []string) (string, bool) {
	for _, name := range names {
		if src.LookupEnv != nil {
			if val, ok := src.LookupEnv(name); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val), true
			}
		}
	}
	for _, name := range names {
		if val := strings.TrimSpace(dotEnv[name]); val != "" {
			return val, true
		}
	}
	return "", false
}

func setNested(m map[string]any, key string, value string) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key
		v.SetDefault(key, defaultValue)
	}
}
