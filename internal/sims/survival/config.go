package survival

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Rules holds the constants that drive the entity lifecycle.
type Rules struct {
	ChanceOfDeath         float64 `yaml:"chance_of_death"`
	AgingDeathRate        float64 `yaml:"aging_death_rate"`
	PeriodOfGrowth        int     `yaml:"period_of_growth"`
	FoodForMitosis        int     `yaml:"food_for_mitosis"`
	FoodPerConsumption    int     `yaml:"food_per_consumption"`
	FoodPerTerritory      int     `yaml:"food_per_territory"`
	VariationRangeMinimum int     `yaml:"variation_range_minimum"`
}

// Config controls the survival simulation dimensions and rules.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	// SpawnChance is the probability that a cell starts with an entity.
	SpawnChance float64 `yaml:"spawn_chance"`

	Rules Rules `yaml:"rules"`
}

// DefaultRules returns the reference lifecycle constants.
func DefaultRules() Rules {
	return Rules{
		ChanceOfDeath:         0.01,
		AgingDeathRate:        0.001,
		PeriodOfGrowth:        3,
		FoodForMitosis:        10,
		FoodPerConsumption:    3,
		FoodPerTerritory:      1,
		VariationRangeMinimum: 1,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:       60,
		Height:      60,
		Seed:        1337,
		SpawnChance: 0.02,
		Rules:       DefaultRules(),
	}
}

// Validate reports the first setting that would make the world unusable.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid size %dx%d must be positive", c.Width, c.Height))
	}
	if c.SpawnChance < 0 || c.SpawnChance > 1 {
		errs = append(errs, fmt.Errorf("spawn_chance %v outside [0,1]", c.SpawnChance))
	}
	r := c.Rules
	if r.ChanceOfDeath < 0 || r.ChanceOfDeath > 1 {
		errs = append(errs, fmt.Errorf("chance_of_death %v outside [0,1]", r.ChanceOfDeath))
	}
	if r.AgingDeathRate < 0 {
		errs = append(errs, fmt.Errorf("aging_death_rate %v must not be negative", r.AgingDeathRate))
	}
	if r.PeriodOfGrowth < 0 {
		errs = append(errs, fmt.Errorf("period_of_growth %d must not be negative", r.PeriodOfGrowth))
	}
	if r.FoodForMitosis <= 0 {
		errs = append(errs, fmt.Errorf("food_for_mitosis %d must be positive", r.FoodForMitosis))
	}
	if r.FoodPerConsumption < 0 || r.FoodPerTerritory < 0 {
		errs = append(errs, errors.New("food rewards must not be negative"))
	}
	if r.VariationRangeMinimum < 0 {
		errs = append(errs, fmt.Errorf("variation_range_minimum %d must not be negative", r.VariationRangeMinimum))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML config file on top of DefaultConfig, so a file may
// set only the keys it cares about.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["spawn_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.SpawnChance = parsed
		}
	}
	if v, ok := cfg["chance_of_death"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Rules.ChanceOfDeath = parsed
		}
	}
	if v, ok := cfg["aging_death_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Rules.AgingDeathRate = parsed
		}
	}
	if v, ok := cfg["period_of_growth"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rules.PeriodOfGrowth = parsed
		}
	}
	if v, ok := cfg["food_for_mitosis"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rules.FoodForMitosis = parsed
		}
	}
	if v, ok := cfg["food_per_consumption"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rules.FoodPerConsumption = parsed
		}
	}
	if v, ok := cfg["food_per_territory"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rules.FoodPerTerritory = parsed
		}
	}
	if v, ok := cfg["variation_range_minimum"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rules.VariationRangeMinimum = parsed
		}
	}
	return c
}
