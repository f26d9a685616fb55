package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProductData is returned when a product record cannot be analyzed
	// (unknown serving size unit, missing or non-positive serving size, no nutrition table)
	ErrInvalidProductData = errors.New("product data is invalid")

	// ErrInvalidProductType is returned when a threshold lookup gets an unknown product type
	ErrInvalidProductType = errors.New("invalid product type")

	// ErrInvalidServingSize is returned when a serving size is zero, negative or NaN
	ErrInvalidServingSize = errors.New("invalid serving size")

	// ErrZeroBaselineServing is returned when a nutrient panel has a zero baseline serving size
	ErrZeroBaselineServing = errors.New("baseline serving size is zero")

	// ErrInvalidNumeric is returned when nutrient panel fields are missing or not numbers
	ErrInvalidNumeric = errors.New("invalid numeric nutrient values")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a product is not in the product store
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreFailure is returned when the product store cannot be read or written
	ErrStoreFailure = errors.New("product store failure")

	// ErrLLMFailure is returned when the text generation service fails
	ErrLLMFailure = errors.New("text generation request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// PanelValidationError lists every nutrient panel field that failed validation.
type PanelValidationError struct {
	Missing    []string
	NonNumeric []string
}

func (e *PanelValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.NonNumeric) > 0 {
		parts = append(parts, fmt.Sprintf("non-numeric values found in fields: %s", strings.Join(e.NonNumeric, ", ")))
	}
	return fmt.Sprintf("%v: %s", ErrInvalidNumeric, strings.Join(parts, "; "))
}

// Fields returns all failed fields, missing ones first
func (e *PanelValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Missing)+len(e.NonNumeric))
	fields = append(fields, e.Missing...)
	return append(fields, e.NonNumeric...)
}

func (e *PanelValidationError) Unwrap() error {
	return ErrInvalidNumeric
}
