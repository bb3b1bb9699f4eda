// Package config loads pbxpatch settings with koanf.
// Priority: flags (applied by the caller) > environment variables (PBXPATCH_*)
// > config file (.pbxpatch.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/soapywu/pbxpatch/logger"
	"github.com/soapywu/pbxpatch/pbxproj"
)

const (
	EnvPrefix         = "PBXPATCH_"
	DefaultConfigPath = ".pbxpatch.yml"
)

// ResourceConfig describes the file being registered.
type ResourceConfig struct {
	// Name is the path written into the file reference; its basename names
	// the entry in every comment.
	Name       string `koanf:"name"`
	FileType   string `koanf:"file_type"`
	SourceTree string `koanf:"source_tree"`
	// File, when set, must point at the resource on disk and decode as a
	// property list before anything is written.
	File string `koanf:"file"`
}

type Configuration struct {
	Project         string          `koanf:"project"`
	Resource        ResourceConfig  `koanf:"resource"`
	Anchors         pbxproj.Anchors `koanf:"anchors"`
	Strict          bool            `koanf:"strict"`
	DryRun          bool            `koanf:"dry_run"`
	AvoidCollisions bool            `koanf:"avoid_collisions"`
	Log             logger.Config   `koanf:"log"`
}

// Load reads the configuration. A missing config file is an error only when
// configPath was given explicitly.
func Load(configPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadConfigFile(k, configPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

func loadConfigFile(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path = DefaultConfigPath
		if !fileExists(path) {
			return nil
		}
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig maps PBXPATCH_ANCHORS__GROUP__HEADER to
// anchors.group.header; a double underscore separates levels.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewResource builds the resource described by the configuration.
func (c *Configuration) NewResource() *pbxproj.PbxResource {
	return pbxproj.NewPbxResource(c.Resource.Name, pbxproj.PbxResourceOptions{
		LastKnownFileType: c.Resource.FileType,
		SourceTree:        c.Resource.SourceTree,
	})
}
