package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable that overrides a config value.
const EnvPrefix = "PLAYLIST_DL_"

const (
	defaultYtDlpCmd    = "yt-dlp"
	defaultFFmpeg      = "ffmpeg"
	defaultYtDlpConfig = "yt-dlp.conf"
)

type Config struct {
	// LogLevel is the default verbosity, 0 for info up to 2 for trace.
	LogLevel int `yaml:"log_level"`
	// OutputFormat is the file name template. Empty means "%(artists) -- %(title)".
	OutputFormat string `yaml:"output_format"`

	YtDlpCmd       string `yaml:"ytdlp_cmd"`
	FFmpegLocation string `yaml:"ffmpeg_location"`
	YtDlpConfig    string `yaml:"ytdlp_config"`

	PlaylistFiles bool `yaml:"playlist_files"`
	WriteTags     bool `yaml:"write_tags"`

	Storage StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	// Service account file used for gs:// paths. Empty means application default credentials.
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	config.applyDefaults()
	return config, nil
}

// LoadWithEnv loads path (or the defaults when path is empty), then the
// optional .env files and finally applies PLAYLIST_DL_* overrides.
func LoadWithEnv(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads the files that exist. godotenv never overrides variables
// that are already set.
func loadEnvFiles(files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.YtDlpCmd == "" {
		c.YtDlpCmd = defaultYtDlpCmd
	}
	if c.FFmpegLocation == "" {
		c.FFmpegLocation = defaultFFmpeg
	}
	if c.YtDlpConfig == "" {
		c.YtDlpConfig = defaultYtDlpConfig
	}
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"OUTPUT_FORMAT":        &c.OutputFormat,
		"YTDLP_CMD":            &c.YtDlpCmd,
		"FFMPEG_LOCATION":      &c.FFmpegLocation,
		"YTDLP_CONFIG":         &c.YtDlpConfig,
		"GCS_CREDENTIALS_FILE": &c.Storage.GCSCredentialsFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"PLAYLIST_FILES": &c.PlaylistFiles,
		"WRITE_TAGS":     &c.WriteTags,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sLOG_LEVEL: %w", EnvPrefix, err)
		}
		c.LogLevel = n
	}
	return nil
}
