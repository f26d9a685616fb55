package domain

import "encoding/json"

// ProductType tells whether thresholds are per 100 g or per 100 ml
type ProductType string

const (
	ProductTypeSolid  ProductType = "solid"
	ProductTypeLiquid ProductType = "liquid"
)

// NutrientClass is the set of categories a nutrient entry name falls into.
// A name can belong to several classes ("Salt (as Sodium)"); zero means Other.
type NutrientClass uint8

const (
	ClassEnergy NutrientClass = 1 << iota
	ClassSugar
	ClassAddedSugar
	ClassTotalSugar
	ClassSalt
	ClassSodium
)

// ClassOther is the class of entries that match no tracked category
const ClassOther NutrientClass = 0

// Has reports whether c contains every bit of other
func (c NutrientClass) Has(other NutrientClass) bool {
	return other != 0 && c&other == other
}

// ExtractedNutrients holds the key nutrients read from a nutrition facts table.
// Nil fields were not found in the record.
type ExtractedNutrients struct {
	ProductType ProductType
	Calories    *float64
	Sugar       *float64
	Salt        *float64
	ServingSize *float64
}

// MarshalJSON writes the positional tuple
// [product_type, calories, sugar, salt, serving_size] with nulls for missing values
func (e ExtractedNutrients) MarshalJSON() ([]byte, error) {
	var productType *string
	if e.ProductType != "" {
		s := string(e.ProductType)
		productType = &s
	}
	return json.Marshal([]interface{}{productType, e.Calories, e.Sugar, e.Salt, e.ServingSize})
}

// ThresholdResult compares one nutrient, scaled per 100 g/ml, with its threshold
type ThresholdResult struct {
	Value          float64 `json:"value"`
	Threshold      float64 `json:"threshold"`
	Difference     float64 `json:"difference"`
	PercentageDiff float64 `json:"percentageDiff"`
}

// ThresholdAnalysis is the outcome of comparing calories, sugar and salt to thresholds
type ThresholdAnalysis struct {
	Analysis  string                     `json:"analysis"`
	Nutrients map[string]ThresholdResult `json:"nutrients"`
}

// NutrientPanel is the eleven-nutrient panel for one serving of ServingSize
type NutrientPanel struct {
	Energy             float64 `json:"energy"`
	Protein            float64 `json:"protein"`
	Carbohydrates      float64 `json:"carbohydrates"`
	AddedSugars        float64 `json:"addedSugars"`
	DietaryFiber       float64 `json:"dietaryFiber"`
	TotalFat           float64 `json:"totalFat"`
	SaturatedFat       float64 `json:"saturatedFat"`
	MonounsaturatedFat float64 `json:"monounsaturatedFat"`
	PolyunsaturatedFat float64 `json:"polyunsaturatedFat"`
	TransFat           float64 `json:"transFat"`
	Sodium             float64 `json:"sodium"`
	ServingSize        float64 `json:"servingSize"`
}

// RDAReport holds each nutrient as a percentage of its recommended daily value,
// formatted as text ("12.5%") or "N/A"
type RDAReport struct {
	Energy        string `json:"energy"`
	Protein       string `json:"protein"`
	Carbohydrates string `json:"carbohydrates"`
	AddedSugars   string `json:"addedSugars"`
	DietaryFiber  string `json:"dietaryFiber"`
	TotalFat      string `json:"totalFat"`
	SaturatedFat  string `json:"saturatedFat"`
	Sodium        string `json:"sodium"`
}

// RDARequest scales a per-serving panel to a user serving size.
// UserServingSize accepts a number, a numeric string or "".
type RDARequest struct {
	NutritionPerServing map[string]interface{} `json:"nutritionPerServing"`
	UserServingSize     json.RawMessage        `json:"userServingSize"`
}

// RDAResult is the scaled panel and its RDA percentages
type RDAResult struct {
	NutritionPerServing NutrientPanel `json:"nutritionPerServing"`
	UserServingSize     float64       `json:"userServingSize"`
	Percentages         RDAReport     `json:"percentages"`
}

// ThresholdRequest is the input of a direct threshold comparison
type ThresholdRequest struct {
	ProductType ProductType `json:"productType" binding:"required"`
	Calories    *float64    `json:"calories"`
	Sugar       *float64    `json:"sugar"`
	Salt        *float64    `json:"salt"`
	ServingSize float64     `json:"servingSize"`
}

// ProductAnalysis is the full assessment of one product
type ProductAnalysis struct {
	Valid       bool               `json:"valid"`
	ProductID   string             `json:"productId,omitempty"`
	ProductName string             `json:"productName,omitempty"`
	BrandName   string             `json:"brandName,omitempty"`
	Extracted   ExtractedNutrients `json:"extracted"`
	Thresholds  *ThresholdAnalysis `json:"thresholds,omitempty"`
	Panel       *NutrientPanel     `json:"nutritionPerServing,omitempty"`
	RDA         *RDAReport         `json:"rda,omitempty"`
	Explanation string             `json:"explanation"`
}
