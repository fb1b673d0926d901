package confloader

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "OFCHAT_"

// Loader layers configuration sources over a target struct.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any

	// known maps the underscore form of every field key of the target to
	// its dotted koanf key.
	known map[string]string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file to read. An empty path reads no file.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets values, keyed by dotted koanf key, that win over every
// other source. The CLI uses it for command-line flags.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		for k, v := range values {
			l.overrides[k] = v
		}
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		overrides: make(map[string]any),
		known:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fills target, a pointer to a struct with koanf tags. Values already
// in target act as defaults; the file, the environment and the overrides
// are applied on top in that order. Fields no source mentions are left
// untouched.
func (l *Loader) Load(target any) error {
	for _, key := range StructKeys(target) {
		l.known[strings.ReplaceAll(key, ".", "_")] = key
	}

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	for key, value := range l.overrides {
		if err := l.k.Set(key, value); err != nil {
			return fmt.Errorf("override %s: %w", key, err)
		}
	}

	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// envKey maps OFCHAT_DEV_ECHO_CODE to dev.echo_code. Variables naming no
// known field fall back to one dot per underscore.
func (l *Loader) envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
	if key, ok := l.known[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}

// StructKeys returns the dotted koanf keys of the leaf fields of v, which
// must be a struct or a pointer to one. time.Duration and time.Time count
// as leaves.
func StructKeys(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		if f.Type.Kind() == reflect.Struct && f.Type.PkgPath() != "time" {
			collectKeys(f.Type, key, keys)
			continue
		}
		*keys = append(*keys, key)
	}
}
