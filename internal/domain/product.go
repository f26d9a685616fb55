package domain

import "time"

// ProductInfo is a packaged food record as returned by the product database
type ProductInfo struct {
	ID                     string          `json:"_id,omitempty"`
	BrandName              string          `json:"brandName,omitempty"`
	ProductName            string          `json:"productName,omitempty"`
	Claims                 []string        `json:"claims,omitempty"`
	FSSAILicenseNumbers    []int64         `json:"fssaiLicenseNumbers,omitempty"`
	Ingredients            []Ingredient    `json:"ingredients,omitempty"`
	NutritionalInformation []NutrientEntry `json:"nutritionalInformation"`
	ServingSize            *Quantity       `json:"servingSize"`
	PackagingSize          *Quantity       `json:"packagingSize,omitempty"`
	ServingsPerPack        float64         `json:"servingsPerPack,omitempty"`
	ShelfLife              string          `json:"shelfLife,omitempty"`
	CreatedAt              time.Time       `json:"createdAt,omitzero"`
	UpdatedAt              time.Time       `json:"updatedAt,omitzero"`
}

// Ingredient is a single line of the ingredient list
type Ingredient struct {
	Name     string `json:"name"`
	Percent  string `json:"percent,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

// NutrientEntry is one row of a nutrition facts table, e.g. "Carbohydrate" with
// "per 100 g" and "of which sugars" values
type NutrientEntry struct {
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Values []NutrientValue `json:"values"`
}

// NutrientValue is a value measured against a base such as "per 100 g"
type NutrientValue struct {
	Base  string  `json:"base"`
	Value float64 `json:"value"`
}

// Quantity is an amount with its unit (serving size, packaging size)
type Quantity struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// IngredientNames returns the ingredient names in label order
func (p *ProductInfo) IngredientNames() []string {
	names := make([]string, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}
