package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/ocrclick/internal/command"
	"github.com/jask/ocrclick/internal/match"
)

// Config holds application configuration.
type Config struct {
	Match    MatchConfig
	Commands CommandsConfig
	Overlay  OverlayConfig
	OCR      OCRConfig
	Database DatabaseConfig
	Log      LogConfig
}

// MatchConfig holds fuzzy matching settings.
type MatchConfig struct {
	// MaxRatio is edit distance divided by matched text length, not a count.
	MaxRatio float64 `mapstructure:"max_ratio"`
}

// CommandsConfig holds chain settings.
type CommandsConfig struct {
	Separator string
	DelayMS   int  `mapstructure:"delay_ms"`
	AllowBare bool `mapstructure:"allow_bare"`
}

// OverlayConfig holds highlight settings.
type OverlayConfig struct {
	DurationMS int `mapstructure:"duration_ms"`
}

// OCRConfig holds tesseract settings.
type OCRConfig struct {
	Language       string
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
	Grayscale      bool
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds log settings.
type LogConfig struct {
	Level string
	Dir   string
}

// Settings is the read-only snapshot one command chain runs with.
type Settings struct {
	MaxRatio          float64
	Separator         string
	CommandDelay      time.Duration
	HighlightDuration time.Duration
	AllowBare         bool
}

// Settings returns the execution snapshot of c.
func (c Config) Settings() Settings {
	return Settings{
		MaxRatio:          c.Match.MaxRatio,
		Separator:         c.Commands.Separator,
		CommandDelay:      time.Duration(c.Commands.DelayMS) * time.Millisecond,
		HighlightDuration: time.Duration(c.Overlay.DurationMS) * time.Millisecond,
		AllowBare:         c.Commands.AllowBare,
	}
}

// Parser returns the command parser configured by c.
func (c Config) Parser() command.Parser {
	return command.Parser{AllowBare: c.Commands.AllowBare}
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		// setDefaults only sets scalars matching Config's field types.
		panic(fmt.Sprintf("config: built-in defaults: %v", err))
	}
	return c
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Validate()
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("match.max_ratio", match.DefaultMaxRatio)
	v.SetDefault("commands.separator", command.DefaultSeparator)
	v.SetDefault("commands.delay_ms", 300)
	v.SetDefault("commands.allow_bare", false)
	v.SetDefault("overlay.duration_ms", 500)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.tessdata_prefix", "")
	v.SetDefault("ocr.grayscale", true)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "ocrclick", "ocrclick.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", filepath.Join(home, ".config", "ocrclick"))
}

// Load reads configuration from file and env. Env var overrides use prefix OCRCLICK_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("OCRCLICK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ocrclick"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OCRCLICK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

// Validate clamps values that would make matching or pacing meaningless.
func (c *Config) Validate() {
	if c.Match.MaxRatio < 0 {
		c.Match.MaxRatio = 0
	}
	if c.Commands.Separator == "" {
		c.Commands.Separator = command.DefaultSeparator
	}
	if c.Commands.DelayMS < 0 {
		c.Commands.DelayMS = 0
	}
	if c.Overlay.DurationMS < 0 {
		c.Overlay.DurationMS = 0
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		c.OCR.Language = "eng"
	}
}

// Path returns the config file Save writes to.
func Path() string {
	if path := os.Getenv("OCRCLICK_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "ocrclick", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("match.max_ratio", cfg.Match.MaxRatio)
	v.Set("commands.separator", cfg.Commands.Separator)
	v.Set("commands.delay_ms", cfg.Commands.DelayMS)
	v.Set("commands.allow_bare", cfg.Commands.AllowBare)
	v.Set("overlay.duration_ms", cfg.Overlay.DurationMS)
	v.Set("ocr.language", cfg.OCR.Language)
	v.Set("ocr.tessdata_prefix", cfg.OCR.TessdataPrefix)
	v.Set("ocr.grayscale", cfg.OCR.Grayscale)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.dir", cfg.Log.Dir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
