package particle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spread is a base value with a symmetric uniform variation.
// Sampling a spread yields a value in [Value-Variation, Value+Variation].
type Spread struct {
	Value     float64
	Variation float64
}

// ParseSpread parses a value string from a particle definition.
// Supports multiple formats:
//   - Fixed value: "1500" → value=1500, variation=0
//   - Plus/minus: "10 ± 2" or "10 +- 2" → value=10, variation=2
//   - Range: "[0.7 0.9]" → value=0.8, variation=0.1
//
// Any number may carry a "deg" suffix ("90deg", "[80deg 100deg]"), in which
// case it is converted to radians.
func ParseSpread(s string) (Spread, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spread{}, nil
	}

	// 范围格式 "[min max]"
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Spread{}, fmt.Errorf("unterminated range %q", s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		if len(parts) != 2 {
			return Spread{}, fmt.Errorf("range %q must have exactly two bounds", s)
		}
		lo, err := parseNumber(parts[0])
		if err != nil {
			return Spread{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		hi, err := parseNumber(parts[1])
		if err != nil {
			return Spread{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return Spread{Value: (lo + hi) / 2, Variation: (hi - lo) / 2}, nil
	}

	for _, sep := range []string{"±", "+-"} {
		if idx := strings.Index(s, sep); idx >= 0 {
			value, err := parseNumber(s[:idx])
			if err != nil {
				return Spread{}, fmt.Errorf("invalid value in %q: %w", s, err)
			}
			variation, err := parseNumber(s[idx+len(sep):])
			if err != nil {
				return Spread{}, fmt.Errorf("invalid variation in %q: %w", s, err)
			}
			return Spread{Value: value, Variation: math.Abs(variation)}, nil
		}
	}

	value, err := parseNumber(s)
	if err != nil {
		return Spread{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Spread{Value: value}, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	degrees := false
	if strings.HasSuffix(s, "deg") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "deg"))
		degrees = true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if degrees {
		v = v * math.Pi / 180.0
	}
	return v, nil
}

// UnmarshalYAML accepts plain numbers as well as the string formats of ParseSpread.
func (sp *Spread) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value, got %v", node.Line, node.Tag)
	}
	parsed, err := ParseSpread(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*sp = parsed
	return nil
}

// Vec2Spread is a per-axis spread.
type Vec2Spread struct {
	X Spread `yaml:"x"`
	Y Spread `yaml:"y"`
}

// Values splits the spread into its base vector and variation vector.
func (v Vec2Spread) Values() (value, variation Vec2) {
	return Vec2{X: v.X.Value, Y: v.Y.Value}, Vec2{X: v.X.Variation, Y: v.Y.Variation}
}

// ColorSpread is a per-channel spread, written as a four element sequence.
type ColorSpread [4]Spread

// Values splits the spread into its base color and variation color.
func (c ColorSpread) Values() (value, variation Color) {
	for i := range c {
		value[i] = c[i].Value
		variation[i] = c[i].Variation
	}
	return value, variation
}

// UnmarshalYAML accepts either a 4 element sequence or a 3 element RGB
// sequence (alpha defaults to 1).
func (c *ColorSpread) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: color must be a sequence of 3 or 4 channels", node.Line)
	}
	if len(node.Content) != 3 && len(node.Content) != 4 {
		return fmt.Errorf("line %d: color must have 3 or 4 channels, got %d", node.Line, len(node.Content))
	}
	var out ColorSpread
	out[3] = Spread{Value: 1}
	for i, child := range node.Content {
		if err := out[i].UnmarshalYAML(child); err != nil {
			return err
		}
	}
	*c = out
	return nil
}
