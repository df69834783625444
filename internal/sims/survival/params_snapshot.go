package survival

import (
	"strconv"

	"lifegrid/internal/core"
)

// Parameters reports the configuration for display.
func (w *World) Parameters() core.ParameterSnapshot {
	rules := w.cfg.Rules
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				floatParam("spawn_chance", "Spawn chance", w.cfg.SpawnChance),
			},
		},
		{
			Name: "Lifecycle",
			Params: []core.Parameter{
				floatParam("chance_of_death", "Chance of death", rules.ChanceOfDeath),
				floatParam("aging_death_rate", "Aging death rate", rules.AgingDeathRate),
				intParam("period_of_growth", "Period of growth", rules.PeriodOfGrowth),
				intParam("food_for_mitosis", "Food for mitosis", rules.FoodForMitosis),
			},
		},
		{
			Name: "Feeding",
			Params: []core.Parameter{
				intParam("food_per_consumption", "Food per consumption", rules.FoodPerConsumption),
				intParam("food_per_territory", "Food per territory", rules.FoodPerTerritory),
				intParam("variation_range_minimum", "Variation range min", rules.VariationRangeMinimum),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the rule constants the HUD may adjust while running.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "chance_of_death", Label: "Death %", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "aging_death_rate", Label: "Aging rate", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0, HasMin: true},
		{Key: "period_of_growth", Label: "Growth", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "food_for_mitosis", Label: "Mitosis food", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
	}
}

// SetIntParameter updates an integer rule. Unknown keys and out-of-range
// values are rejected.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "period_of_growth":
		if value < 0 {
			return false
		}
		w.cfg.Rules.PeriodOfGrowth = value
	case "food_for_mitosis":
		if value < 1 {
			return false
		}
		w.cfg.Rules.FoodForMitosis = value
	case "food_per_consumption":
		if value < 0 {
			return false
		}
		w.cfg.Rules.FoodPerConsumption = value
	case "food_per_territory":
		if value < 0 {
			return false
		}
		w.cfg.Rules.FoodPerTerritory = value
	case "variation_range_minimum":
		if value < 0 {
			return false
		}
		w.cfg.Rules.VariationRangeMinimum = value
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a probability rule, clamping it into range.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "chance_of_death":
		w.cfg.Rules.ChanceOfDeath = clamp01(value)
	case "aging_death_rate":
		if value < 0 {
			value = 0
		}
		w.cfg.Rules.AgingDeathRate = value
	default:
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func init() {
	core.Register("survival", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
