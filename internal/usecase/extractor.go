package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/labelcheck/backend/internal/domain"
)

// ClassifyNutrient tags a nutrient entry name with the categories it belongs to.
// Matching is case-insensitive and by substring.
func ClassifyNutrient(name string) domain.NutrientClass {
	n := strings.ToLower(name)
	class := domain.ClassOther

	if strings.Contains(n, "energy") {
		class |= domain.ClassEnergy
	}

	total := strings.Contains(n, "total sugar")
	added := strings.Contains(n, "added sugar")
	if total {
		class |= domain.ClassTotalSugar
	}
	if added {
		class |= domain.ClassAddedSugar
	}
	if strings.Contains(n, "sugar") && !total && !added {
		class |= domain.ClassSugar
	}

	if strings.Contains(n, "salt") {
		class |= domain.ClassSalt
	}
	if strings.Contains(n, "sodium") {
		class |= domain.ClassSodium
	}

	return class
}

// ProductTypeFor maps a serving size unit to a product type.
// Returns "" when the unit is neither grams nor millilitres.
func ProductTypeFor(unit string) domain.ProductType {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g":
		return domain.ProductTypeSolid
	case "ml":
		return domain.ProductTypeLiquid
	}
	return ""
}

type classifiedEntry struct {
	class domain.NutrientClass
	value float64
}

// ExtractNutrients reads product type, calories, sugar, salt and serving size from a
// product record. The result is best-effort; call ValidateExtraction before using it.
func ExtractNutrients(product *domain.ProductInfo) domain.ExtractedNutrients {
	var out domain.ExtractedNutrients
	if product == nil {
		return out
	}

	if product.ServingSize != nil {
		out.ProductType = ProductTypeFor(product.ServingSize.Unit)
		size := product.ServingSize.Quantity
		out.ServingSize = &size
	}

	entries := make([]classifiedEntry, 0, len(product.NutritionalInformation))
	for _, item := range product.NutritionalInformation {
		if len(item.Values) == 0 {
			continue
		}
		class := ClassifyNutrient(item.Name)
		if class == domain.ClassOther {
			continue
		}
		entries = append(entries, classifiedEntry{class: class, value: item.Values[0].Value})
	}

	var sugar, totalSugar, addedSugar *float64
	var salt, sodium *float64
	for _, e := range entries {
		v := e.value
		if e.class.Has(domain.ClassEnergy) && out.Calories == nil {
			out.Calories = &v
		}
		if e.class.Has(domain.ClassTotalSugar) && totalSugar == nil {
			totalSugar = &v
		}
		if e.class.Has(domain.ClassAddedSugar) && addedSugar == nil {
			addedSugar = &v
		}
		if e.class.Has(domain.ClassSugar) && sugar == nil {
			sugar = &v
		}
		if e.class.Has(domain.ClassSalt) {
			salt = addTo(salt, v)
		}
		if e.class.Has(domain.ClassSodium) {
			sodium = addTo(sodium, v)
		}
	}

	switch {
	case sugar != nil:
		out.Sugar = sugar
	case addedSugar != nil && *addedSugar > 0:
		out.Sugar = addedSugar
	case totalSugar != nil && *totalSugar > 0:
		out.Sugar = totalSugar
	}

	// sodium only counts when the label has no salt line at all
	if salt != nil {
		out.Salt = salt
	} else {
		out.Salt = sodium
	}

	return out
}

func addTo(sum *float64, v float64) *float64 {
	if sum == nil {
		return &v
	}
	total := *sum + v
	return &total
}

// ValidateExtraction checks that a threshold analysis can be run on the extracted nutrients
func ValidateExtraction(e domain.ExtractedNutrients) error {
	if e.ProductType == "" {
		return fmt.Errorf("%w: serving size unit must be g or ml", domain.ErrInvalidProductData)
	}
	if e.ServingSize == nil {
		return fmt.Errorf("%w: serving size is missing", domain.ErrInvalidProductData)
	}
	if math.IsNaN(*e.ServingSize) || *e.ServingSize <= 0 {
		return fmt.Errorf("%w: serving size must be positive, got %v", domain.ErrInvalidProductData, *e.ServingSize)
	}
	return nil
}
