package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// GameConfig is a named game preset loaded from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Mode        GameMode `json:"mode"`
	// Colors is the palette selected at the start of a game
	Colors []Color `json:"colors"`
	// BaseSpeedMs is the level 1 gravity interval; zero uses InitialSpeed
	BaseSpeedMs int `json:"base_speed_ms,omitempty"`
	// Seed fixes the piece sequence when non-zero
	Seed uint64 `json:"seed,omitempty"`
}

// BaseSpeed returns the configured level 1 gravity interval
func (c *GameConfig) BaseSpeed() time.Duration {
	if c == nil || c.BaseSpeedMs <= 0 {
		return InitialSpeed
	}
	return time.Duration(c.BaseSpeedMs) * time.Millisecond
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidatePalette checks a piece palette: MinPaletteSize to MaxPaletteSize distinct #RRGGBB
// colors
func ValidatePalette(colors []Color) error {
	if len(colors) < MinPaletteSize || len(colors) > MaxPaletteSize {
		return fmt.Errorf("colors must have between %d and %d entries, got %d",
			MinPaletteSize, MaxPaletteSize, len(colors))
	}
	seen := make(map[Color]bool, len(colors))
	for i, c := range colors {
		if !hexColor.MatchString(string(c)) {
			return fmt.Errorf("colors[%d] must be #RRGGBB, got %q", i, c)
		}
		if seen[c] {
			return fmt.Errorf("colors[%d] duplicates %s", i, c)
		}
		seen[c] = true
	}
	return nil
}

// ValidateGameConfig checks a preset for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if _, ok := SettingsFor(config.Mode); !ok {
		return fmt.Errorf("config validation: mode must be one of classic, time-attack, survival, marathon, got %q", config.Mode)
	}
	if err := ValidatePalette(config.Colors); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if config.BaseSpeedMs != 0 && config.BaseSpeedMs < int(MinimumSpeed/time.Millisecond) {
		return fmt.Errorf("config validation: base_speed_ms must be 0 or at least %d, got %d",
			int(MinimumSpeed/time.Millisecond), config.BaseSpeedMs)
	}
	return nil
}

// DefaultGameConfig is the built-in classic preset
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Classic rules with the standard palette",
		Mode:        ModeClassic,
		Colors:      DefaultSelectedColors(),
	}
}

// resolveConfigPath maps configs/<file> into CONFIG_DIR when it is set
func resolveConfigPath(filename string) string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			return filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}
	return filename
}

// LoadGameConfig loads a preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(resolveConfigPath(filename))
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a preset by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if _, err := os.Stat(resolveConfigPath(configPath)); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// InitGameStateFromConfig starts a game for a preset
func InitGameStateFromConfig(p *Processor, config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}
	return p.InitialState(config.Mode, config.Colors)
}
