package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/labelcheck/backend/internal/domain"
)

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		daily float64
		want  string
	}{
		{"one decimal", 87, 2230, "3.9%"},
		{"two decimals", 53, 2000, "2.65%"},
		{"whole number keeps .0", 55, 55, "100.0%"},
		{"zero value", 0, 30, "0.0%"},
		{"tiny negative rounds to zero", -0.0001, 30, "0.0%"},
		{"repeating fraction", 1, 3, "33.33%"},
		{"zero daily value", 10, 0, NotAvailable},
		{"NaN value", math.NaN(), 30, NotAvailable},
		{"infinite value", math.Inf(1), 30, NotAvailable},
		{"negative infinite value", math.Inf(-1), 30, NotAvailable},
		{"ratio overflows", 1e308, 1e-10, NotAvailable},
		{"large finite value", 1e20, 100, "100000000000000000000.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPercentage(tt.value, tt.daily); got != tt.want {
				t.Errorf("FormatPercentage(%v, %v) = %q, want %q", tt.value, tt.daily, got, tt.want)
			}
		})
	}
}

func TestCalculateRDA(t *testing.T) {
	got := CalculateRDA(biscuitPanel())

	want := domain.RDAReport{
		Energy:        "3.9%",
		Protein:       "2.18%",
		Carbohydrates: "4.24%",
		AddedSugars:   "17.0%",
		DietaryFiber:  "1.0%",
		TotalFat:      "3.92%",
		SaturatedFat:  "6.36%",
		Sodium:        "2.65%",
	}
	if got != want {
		t.Errorf("CalculateRDA() = %+v, want %+v", got, want)
	}

	zero := CalculateRDA(domain.NutrientPanel{})
	if zero.Energy != "0.0%" || zero.Sodium != "0.0%" {
		t.Errorf("zero panel = %+v, want 0.0%% everywhere", zero)
	}
}

func rdaRequest(panel map[string]interface{}, size string) *domain.RDARequest {
	return &domain.RDARequest{NutritionPerServing: panel, UserServingSize: json.RawMessage(size)}
}

func TestFindNutrition(t *testing.T) {
	t.Run("scales to user serving size", func(t *testing.T) {
		got, err := FindNutrition(rdaRequest(fullPanelMap(), `"37.6"`))
		if err != nil {
			t.Fatalf("FindNutrition() error = %v", err)
		}
		if got.UserServingSize != 37.6 {
			t.Errorf("UserServingSize = %v, want 37.6", got.UserServingSize)
		}
		if got.NutritionPerServing.Energy != 174 {
			t.Errorf("Energy = %v, want 174", got.NutritionPerServing.Energy)
		}
		if got.Percentages.Energy != "7.8%" {
			t.Errorf("Percentages.Energy = %q, want 7.8%%", got.Percentages.Energy)
		}
	})

	tests := []struct {
		name string
		req  *domain.RDARequest
		want error
	}{
		{"nil request", nil, domain.ErrInvalidRequest},
		{"empty panel", rdaRequest(map[string]interface{}{}, `10`), domain.ErrInvalidRequest},
		{"empty panel checked before size", rdaRequest(nil, `"abc"`), domain.ErrInvalidRequest},
		{"non-numeric size", rdaRequest(fullPanelMap(), `"abc"`), domain.ErrInvalidNumeric},
		{"zero size", rdaRequest(fullPanelMap(), `0`), domain.ErrInvalidServingSize},
		{"empty size", rdaRequest(fullPanelMap(), `""`), domain.ErrInvalidServingSize},
		{"negative size", rdaRequest(fullPanelMap(), `-1`), domain.ErrInvalidServingSize},
		{"missing fields", rdaRequest(map[string]interface{}{"energy": 1.0}, `10`), domain.ErrInvalidNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FindNutrition(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("zero baseline serving size", func(t *testing.T) {
		panel := fullPanelMap()
		panel["servingSize"] = 0.0
		if _, err := FindNutrition(rdaRequest(panel, `10`)); !errors.Is(err, domain.ErrZeroBaselineServing) {
			t.Errorf("error = %v, want ErrZeroBaselineServing", err)
		}
	})
}

func TestRDASummary(t *testing.T) {
	got := RDASummary(CalculateRDA(biscuitPanel()))

	prefix := "Nutrition per serving as percentage of Recommended Dietary Allowance (RDA) is {"
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("RDASummary() = %q, want prefix %q", got, prefix)
	}
	if !strings.Contains(got, `"energy":"3.9%"`) {
		t.Errorf("RDASummary() = %q, want energy entry", got)
	}
}
