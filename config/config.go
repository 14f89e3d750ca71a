package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lixenwraith/kartcore/parameter"
)

const (
	fileName  = "kartsim"
	envPrefix = "KARTSIM"
)

// Keys
const (
	KeyTickRate         = "tick_rate"
	KeyLogLevel         = "log.level"
	KeyLogDir           = "log.dir"
	KeyLogMaxSize       = "log.max_size"
	KeyScenePath        = "scene.path"
	KeyResultsDriver    = "results.driver"
	KeyResultsDSN       = "results.dsn"
	KeyAudioEnabled     = "audio.enabled"
	KeyAudioVolume      = "audio.volume"
	KeyTelemetryEnabled = "telemetry.enabled"
	KeyPlayerFront      = "player.front"
	KeyPlayerBack       = "player.back"
)

// Config is the resolved application configuration
type Config struct {
	TickRate  int             `mapstructure:"tick_rate"`
	Log       LogConfig       `mapstructure:"log"`
	Scene     SceneConfig     `mapstructure:"scene"`
	Results   ResultsConfig   `mapstructure:"results"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Player    PlayerConfig    `mapstructure:"player"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"` // Bytes before rotation to .old
}

type SceneConfig struct {
	Path string `mapstructure:"path"` // Empty selects the embedded demo track
}

type ResultsConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type PlayerConfig struct {
	Front int `mapstructure:"front"`
	Back  int `mapstructure:"back"`
}

// SetDefaults registers a default for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTickRate, parameter.DefaultTickRate)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDir, "logs")
	v.SetDefault(KeyLogMaxSize, 10<<20)
	v.SetDefault(KeyScenePath, "")
	v.SetDefault(KeyResultsDriver, "sqlite")
	v.SetDefault(KeyResultsDSN, "kartsim.db")
	v.SetDefault(KeyAudioEnabled, true)
	v.SetDefault(KeyAudioVolume, 0.5)
	v.SetDefault(KeyTelemetryEnabled, false)
	v.SetDefault(KeyPlayerFront, 0)
	v.SetDefault(KeyPlayerBack, 1)
}

// New returns a viper instance with defaults, search paths and env binding
// explicit names a config file and disables the search
func New(explicit string, searchDirs ...string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicit != "" {
		v.SetConfigFile(explicit)
		return v
	}
	v.SetConfigName(fileName)
	v.SetConfigType("toml")
	for _, d := range searchDirs {
		v.AddConfigPath(d)
	}
	return v
}

// DefaultSearchDirs returns the working directory and the user config dir
func DefaultSearchDirs(home string) []string {
	dirs := []string{"."}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", fileName))
	}
	return dirs
}

// Load reads the config file if one exists and decodes the result
// A missing file is not an error; defaults and env still apply
func Load(v *viper.Viper) (Config, bool, error) {
	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, false, fmt.Errorf("read config: %w", err)
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, found, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, found, nil
}

func (c *Config) normalize() {
	if c.TickRate <= 0 {
		c.TickRate = parameter.DefaultTickRate
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	c.Player.Front = clampPlayer(c.Player.Front)
	c.Player.Back = clampPlayer(c.Player.Back)
}

func clampPlayer(p int) int {
	if p < 0 {
		return 0
	}
	if p >= parameter.MaxPlayers {
		return parameter.MaxPlayers - 1
	}
	return p
}

// Step returns the fixed step for the configured tick rate
func (c Config) Step() float64 {
	return 1 / float64(c.TickRate)
}
