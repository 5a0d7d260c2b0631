package particle

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestParseSpread_FixedValue tests parsing of fixed value format
func TestParseSpread_FixedValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"Integer", "1500", 1500},
		{"Float", "3.14", 3.14},
		{"Negative", "-10.5", -10.5},
		{"Zero", "0", 0},
		{"Padded", "  7  ", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpread(tt.input)
			if err != nil {
				t.Fatalf("ParseSpread(%q) error: %v", tt.input, err)
			}
			if got.Value != tt.want {
				t.Errorf("ParseSpread(%q) value = %v, want %v", tt.input, got.Value, tt.want)
			}
			if got.Variation != 0 {
				t.Errorf("ParseSpread(%q) variation = %v, want 0", tt.input, got.Variation)
			}
		})
	}
}

// TestParseSpread_Range tests parsing of range format
func TestParseSpread_Range(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantValue     float64
		wantVariation float64
	}{
		{"Float range", "[0.7 0.9]", 0.8, 0.1},
		{"Integer range", "[10 20]", 15, 5},
		{"Negative range", "[-5 -2]", -3.5, 1.5},
		{"Mixed range", "[-1.5 2.5]", 0.5, 2},
		{"Reversed range", "[20 10]", 15, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpread(tt.input)
			if err != nil {
				t.Fatalf("ParseSpread(%q) error: %v", tt.input, err)
			}
			if math.Abs(got.Value-tt.wantValue) > 1e-9 {
				t.Errorf("ParseSpread(%q) value = %v, want %v", tt.input, got.Value, tt.wantValue)
			}
			if math.Abs(got.Variation-tt.wantVariation) > 1e-9 {
				t.Errorf("ParseSpread(%q) variation = %v, want %v", tt.input, got.Variation, tt.wantVariation)
			}
		})
	}
}

// TestParseSpread_PlusMinus tests both the unicode and ASCII plus/minus forms
func TestParseSpread_PlusMinus(t *testing.T) {
	tests := []struct {
		input         string
		wantValue     float64
		wantVariation float64
	}{
		{"10 ± 2", 10, 2},
		{"10 +- 2", 10, 2},
		{"-3±0.5", -3, 0.5},
		{"4 +- -1", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSpread(tt.input)
			if err != nil {
				t.Fatalf("ParseSpread(%q) error: %v", tt.input, err)
			}
			if got.Value != tt.wantValue || got.Variation != tt.wantVariation {
				t.Errorf("ParseSpread(%q) = %+v, want {%v %v}", tt.input, got, tt.wantValue, tt.wantVariation)
			}
		})
	}
}

func TestParseSpread_Degrees(t *testing.T) {
	got, err := ParseSpread("90deg ± 10deg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.Value-math.Pi/2) > 1e-9 {
		t.Errorf("value = %v, want pi/2", got.Value)
	}
	if math.Abs(got.Variation-math.Pi/18) > 1e-9 {
		t.Errorf("variation = %v, want pi/18", got.Variation)
	}
}

func TestParseSpread_Empty(t *testing.T) {
	got, err := ParseSpread("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Spread{}) {
		t.Errorf("ParseSpread(\"\") = %+v, want zero", got)
	}
}

func TestParseSpread_Invalid(t *testing.T) {
	inputs := []string{"abc", "[1 2", "[1]", "[1 2 3]", "1 ± x", "y +- 1"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseSpread(input); err == nil {
				t.Errorf("ParseSpread(%q) expected error, got nil", input)
			}
		})
	}
}

func TestSpread_UnmarshalYAML(t *testing.T) {
	var doc struct {
		A Spread `yaml:"a"`
		B Spread `yaml:"b"`
		C Spread `yaml:"c"`
	}
	data := []byte("a: 3\nb: \"2 ± 0.5\"\nc: \"[1 5]\"\n")
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if doc.A != (Spread{Value: 3}) {
		t.Errorf("a = %+v", doc.A)
	}
	if doc.B != (Spread{Value: 2, Variation: 0.5}) {
		t.Errorf("b = %+v", doc.B)
	}
	if doc.C != (Spread{Value: 3, Variation: 2}) {
		t.Errorf("c = %+v", doc.C)
	}

	var bad struct {
		A Spread `yaml:"a"`
	}
	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &bad); err == nil {
		t.Error("expected error for sequence value")
	}
}

func TestColorSpread_UnmarshalYAML(t *testing.T) {
	t.Run("RGB defaults alpha to 1", func(t *testing.T) {
		var c ColorSpread
		if err := yaml.Unmarshal([]byte("[0.5, \"0.2 ± 0.1\", 0]"), &c); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		value, variation := c.Values()
		want := Color{0.5, 0.2, 0, 1}
		if value != want {
			t.Errorf("value = %v, want %v", value, want)
		}
		if variation[1] != 0.1 {
			t.Errorf("green variation = %v, want 0.1", variation[1])
		}
	})

	t.Run("RGBA", func(t *testing.T) {
		var c ColorSpread
		if err := yaml.Unmarshal([]byte("[1, 1, 1, 0.25]"), &c); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		value, _ := c.Values()
		if value[3] != 0.25 {
			t.Errorf("alpha = %v, want 0.25", value[3])
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		var c ColorSpread
		if err := yaml.Unmarshal([]byte("[1, 1]"), &c); err == nil {
			t.Error("expected error for 2 channel color")
		}
	})
}
