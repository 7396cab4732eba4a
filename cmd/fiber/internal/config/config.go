// Package config loads the optional fiber.yaml file and resolves the
// settings used by the fiber command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in a project root.
const FileName = "fiber.yaml"

// Config represents the optional fiber.yaml configuration.
type Config struct {
	// Version is the lowest fiber version the file is written for.
	Version string       `yaml:"version,omitempty"`
	App     AppConfig    `yaml:"app"`
	Engine  EngineConfig `yaml:"engine"`
	Log     LogConfig    `yaml:"log"`
	Debug   DebugConfig  `yaml:"debug"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name  string   `yaml:"name,omitempty"`
	Todos []string `yaml:"todos,omitempty"`
}

// EngineConfig contains engine tuning.
type EngineConfig struct {
	YieldThreshold time.Duration `yaml:"yield_threshold,omitempty"`
	TraceCapacity  int           `yaml:"trace_capacity,omitempty"`
	SliceBudget    time.Duration `yaml:"slice_budget,omitempty"`
	Tick           time.Duration `yaml:"tick,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// DebugConfig contains debug server settings. A zero port disables it.
type DebugConfig struct {
	Port int `yaml:"port,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	Todos          []string
	YieldThreshold time.Duration
	TraceCapacity  int
	SliceBudget    time.Duration
	Tick           time.Duration
	LogLevel       string
	LogFile        string
	DebugPort      int
}

// Defaults for values fiber.yaml leaves out.
const (
	DefaultSliceBudget = 8 * time.Millisecond
	DefaultTick        = 16 * time.Millisecond
	DefaultLogLevel    = "info"
)

// LoadOptional reads fiber.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads fiber.yaml from dir (if present), checks that it is not
// written for a newer version than cliVersion, and resolves defaults. dir
// need not be a Go module; without go.mod the app name comes from the
// directory name.
func Resolve(dir, cliVersion string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(cfg.Version, cliVersion); err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	r := &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        appName,
		Todos:          cfg.App.Todos,
		YieldThreshold: cfg.Engine.YieldThreshold,
		TraceCapacity:  cfg.Engine.TraceCapacity,
		SliceBudget:    cfg.Engine.SliceBudget,
		Tick:           cfg.Engine.Tick,
		LogLevel:       strings.TrimSpace(cfg.Log.Level),
		LogFile:        strings.TrimSpace(cfg.Log.File),
		DebugPort:      cfg.Debug.Port,
	}
	if r.SliceBudget <= 0 {
		r.SliceBudget = DefaultSliceBudget
	}
	if r.Tick <= 0 {
		r.Tick = DefaultTick
	}
	if r.LogLevel == "" {
		r.LogLevel = DefaultLogLevel
	}
	if r.LogFile != "" && !filepath.IsAbs(r.LogFile) {
		r.LogFile = filepath.Join(dir, r.LogFile)
	}
	if r.DebugPort < 0 || r.DebugPort > 65535 {
		return nil, fmt.Errorf("debug.port out of range (got %d)", r.DebugPort)
	}
	return r, nil
}

// FindProjectRoot walks up from the current directory to find go.mod or
// fiber.yaml.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

// checkVersion accepts an empty want, and otherwise requires a valid semver
// that is not newer than have. Development builds ("dev" or any invalid
// version) accept every file.
func checkVersion(want, have string) error {
	want = canonical(want)
	if want == "" {
		return nil
	}
	if !semver.IsValid(want) {
		return fmt.Errorf("version %q in %s is not a semantic version", want, FileName)
	}
	have = canonical(have)
	if !semver.IsValid(have) || semver.Prerelease(have) != "" {
		return nil
	}
	if semver.Compare(want, have) > 0 {
		return fmt.Errorf("%s requires fiber %s, this is %s", FileName, want, have)
	}
	return nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "fiber"
	}
	return base
}
