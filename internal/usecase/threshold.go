package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labelcheck/backend/internal/domain"
)

// Thresholds are per 100 g (solid) or per 100 ml (liquid) limits.
// Salt is compared in the unit the label uses for it (mg of sodium in most labels).
type Thresholds struct {
	Calories float64
	Sugar    float64
	Salt     float64
}

// ICMR-defined limits for packaged foods
var thresholdTable = map[domain.ProductType]Thresholds{
	domain.ProductTypeSolid:  {Calories: 250, Sugar: 3, Salt: 625},
	domain.ProductTypeLiquid: {Calories: 70, Sugar: 2, Salt: 175},
}

// ThresholdsFor returns the limits for a product type
func ThresholdsFor(productType domain.ProductType) (Thresholds, error) {
	t, ok := thresholdTable[productType]
	if !ok {
		return Thresholds{}, fmt.Errorf("%w: %q", domain.ErrInvalidProductType, productType)
	}
	return t, nil
}

// nutrientWording holds the subject and verb forms for a summary clause
type nutrientWording struct {
	key     string
	subject string
	exceed  string
	be      string
}

var (
	caloriesWording = nutrientWording{key: "calories", subject: "Calories", exceed: "exceed", be: "are"}
	sugarWording    = nutrientWording{key: "sugar", subject: "Sugar", exceed: "exceeds", be: "is"}
	saltWording     = nutrientWording{key: "salt", subject: "Salt", exceed: "exceeds", be: "is"}
)

// CompareThresholds scales calories, sugar and salt from one serving to 100 units and
// compares each with the threshold for the product type. Nil nutrients are skipped.
func CompareThresholds(
	productType domain.ProductType,
	calories, sugar, salt *float64,
	servingSize float64,
) (*domain.ThresholdAnalysis, error) {
	limits, err := ThresholdsFor(productType)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(servingSize) || servingSize <= 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidServingSize, servingSize)
	}

	result := &domain.ThresholdAnalysis{
		Nutrients: make(map[string]domain.ThresholdResult),
	}
	var clauses []string

	checks := []struct {
		raw       *float64
		threshold float64
		wording   nutrientWording
	}{
		{calories, limits.Calories, caloriesWording},
		{sugar, limits.Sugar, sugarWording},
		{salt, limits.Salt, saltWording},
	}

	for _, check := range checks {
		if check.raw == nil {
			continue
		}
		r, err := compare(*check.raw, servingSize, check.threshold)
		if err != nil {
			return nil, fmt.Errorf("%w: %s per 100", err, check.wording.key)
		}
		result.Nutrients[check.wording.key] = r
		clauses = append(clauses, describe(check.wording, r.PercentageDiff))
	}

	result.Analysis = strings.Join(clauses, " ")
	return result, nil
}

// PerHundred scales a per-serving amount to a per-100-unit amount
func PerHundred(raw, servingSize float64) float64 {
	return (raw / servingSize) * 100
}

func compare(raw, servingSize, threshold float64) (domain.ThresholdResult, error) {
	scaled := PerHundred(raw, servingSize)
	difference := scaled - threshold
	pct := (difference / threshold) * 100
	if !isFinite(scaled) || !isFinite(difference) || !isFinite(pct) {
		return domain.ThresholdResult{}, fmt.Errorf("%w: %v per %v is not finite", domain.ErrInvalidNumeric, raw, servingSize)
	}
	return domain.ThresholdResult{
		Value:          scaled,
		Threshold:      threshold,
		Difference:     difference,
		PercentageDiff: pct,
	}, nil
}

func describe(w nutrientWording, percentageDiff float64) string {
	if percentageDiff > 0 {
		return fmt.Sprintf("%s %s the ICMR-defined threshold by %s%%.", w.subject, w.exceed, formatOneDecimal(percentageDiff))
	}
	return fmt.Sprintf("%s %s %s%% below the ICMR-defined threshold.", w.subject, w.be, formatOneDecimal(math.Abs(percentageDiff)))
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
