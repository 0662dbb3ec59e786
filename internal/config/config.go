package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds staging parameters for a run of the pipeline.
type Config struct {
	// MirrorURL is the base URL the split archives are downloaded from.
	MirrorURL string `yaml:"mirror_url"`
	// ScratchDir is the transient working directory that owns archives and
	// extracted trees during a run. It must not exist when the run starts
	// and is removed when the run ends.
	ScratchDir string `yaml:"scratch_dir"`
	// OutputDir is where the final dataset directories are promoted to.
	OutputDir string `yaml:"output_dir"`
	// PrepareCommand is the external preparation routine invoked after
	// staging, argv-style. It runs in OutputDir with no extra arguments.
	PrepareCommand []string `yaml:"prepare_command"`
	// Timeout limits a single archive download. Zero means no limit, which
	// is the default since the archives are multi-gigabyte.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for staging settings.
	DefaultConfigFilename = "vocstage-settings.yaml"

	// DefaultMirrorURL is the canonical Pascal VOC mirror.
	DefaultMirrorURL = "http://host.robots.ox.ac.uk/pascal/VOC/"

	// DefaultScratchDirname is the default transient working directory.
	DefaultScratchDirname = "voc-scratch"

	// DefaultOutputDirname is the default destination for dataset directories.
	DefaultOutputDirname = "."

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// DefaultPrepareCommand builds the default delegate invocation. The routine
// reads the staged dataset directories from the working directory and writes
// its own artifacts; its interface is exit-status only.
func DefaultPrepareCommand() []string {
	return []string{"python3", "prepare_data.py"}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errScratchIsOutput is returned when the scratch directory would
	// collide with the output directory.
	errScratchIsOutput = errors.New("scratch directory must differ from output directory")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling in defaults for anything left unset.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MirrorURL == "" {
		cfg.MirrorURL = DefaultMirrorURL
	}

	if _, err := url.ParseRequestURI(cfg.MirrorURL); err != nil {
		return fmt.Errorf("invalid mirror URL: %w", err)
	}

	if cfg.ScratchDir == "" {
		cfg.ScratchDir = DefaultScratchDirname
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDirname
	}

	if filepath.Clean(cfg.ScratchDir) == filepath.Clean(cfg.OutputDir) {
		return errScratchIsOutput
	}

	if len(cfg.PrepareCommand) == 0 {
		cfg.PrepareCommand = DefaultPrepareCommand()
	}

	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}

	return nil
}
