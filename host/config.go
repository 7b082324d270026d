package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"tonebox/audio"
	"tonebox/hw/gpio"
	"tonebox/hw/notes"
	"tonebox/log"
	"tonebox/synth"
)

type Config struct {
	Synth SynthConfig `toml:"synth"`
	Audio AudioConfig `toml:"audio"`
	Host  LoopConfig  `toml:"host"`
}

type SynthConfig struct {
	Pins   []uint  `toml:"pins"`   // port bit of each voice
	Tuning float64 `toml:"tuning"` // frequency of A4, in Hz
}

type AudioConfig struct {
	Backend    audio.Backend `toml:"backend"`
	SampleRate int           `toml:"sample_rate"`
	Volume     float64       `toml:"volume"`
	FlushMs    int           `toml:"flush_ms"`
}

type LoopConfig struct {
	PollUs int `toml:"poll_us"` // sleep between polls in real-time playback
	StepUs int `toml:"step_us"` // simulated time between polls in offline rendering
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModHost.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "tonebox")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModHost.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Synth: SynthConfig{
			Pins:   append([]uint(nil), gpio.DefaultPins...),
			Tuning: 440,
		},
		Audio: AudioConfig{
			Backend:    audio.BackendSDL,
			SampleRate: 44100,
			Volume:     0.5,
			FlushMs:    10,
		},
		Host: LoopConfig{
			PollUs: 0,
			StepUs: 10,
		},
	}
}

// Validate checks the consistency of the configuration.
func (cfg *Config) Validate() error {
	if len(cfg.Synth.Pins) != synth.NumVoices {
		return fmt.Errorf("synth.pins: got %d pins, want %d", len(cfg.Synth.Pins), synth.NumVoices)
	}
	if _, err := gpio.NewPins(cfg.Synth.Pins, nil); err != nil {
		return fmt.Errorf("synth.pins: %w", err)
	}
	if _, err := notes.NewTable(cfg.Synth.Tuning); err != nil {
		return fmt.Errorf("synth.tuning: %w", err)
	}
	if _, err := audio.ParseBackend(string(cfg.Audio.Backend)); err != nil {
		return fmt.Errorf("audio.backend: %w", err)
	}
	if cfg.Audio.SampleRate < audio.MinSampleRate || cfg.Audio.SampleRate > audio.MaxSampleRate {
		return fmt.Errorf("audio.sample_rate: %d out of range [%d, %d]", cfg.Audio.SampleRate, audio.MinSampleRate, audio.MaxSampleRate)
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume: %g out of range [0, 1]", cfg.Audio.Volume)
	}
	if cfg.Audio.FlushMs <= 0 || cfg.Audio.FlushMs > 200 {
		return fmt.Errorf("audio.flush_ms: %d out of range [1, 200]", cfg.Audio.FlushMs)
	}
	if cfg.Host.PollUs < 0 {
		return fmt.Errorf("host.poll_us: negative value %d", cfg.Host.PollUs)
	}
	if cfg.Host.StepUs <= 0 {
		return fmt.Errorf("host.step_us: %d must be positive", cfg.Host.StepUs)
	}
	return nil
}

const cfgFilename = "config.toml"

// LoadConfig loads the configuration file at path. Missing settings keep
// their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, err
	}
	for _, key := range md.Undecoded() {
		log.ModHost.WarnZ("unknown config key").
			String("path", path).
			String("key", key.String()).
			End()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the tonebox config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModHost.Warnf("using default configuration: %v", err)
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfigFile writes the configuration at path.
func SaveConfigFile(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}

// SaveConfig into tonebox config directory.
func SaveConfig(cfg Config) error {
	return SaveConfigFile(filepath.Join(ConfigDir(), cfgFilename), cfg)
}
