package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/labelcheck/backend/internal/domain"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL time.Duration
	Debug    bool
}

// AnalysisService runs the full product assessment: threshold comparison, RDA
// percentages and a generated explanation
type AnalysisService struct {
	cache     domain.CacheRepository
	generator domain.TextGenerator
	products  domain.ProductRepository
	cacheTTL  time.Duration
	debug     bool
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	cache domain.CacheRepository,
	generator domain.TextGenerator,
	products domain.ProductRepository,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &AnalysisService{
		cache:     cache,
		generator: generator,
		products:  products,
		cacheTTL:  cacheTTL,
		debug:     config.Debug,
	}
}

// AnalyzeStoredProduct loads a product from the store and analyzes it
func (s *AnalysisService) AnalyzeStoredProduct(ctx context.Context, id string) (*domain.ProductAnalysis, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.products == nil {
		return nil, fmt.Errorf("%w: no product store configured", domain.ErrStoreFailure)
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeProduct(ctx, product)
}

// AnalyzeProduct assesses a product record.
// Flow: extract -> validate -> thresholds -> panel (cache or LLM) -> scale -> RDA -> explanation.
// Records that cannot be analyzed yield a result with Valid=false and an explanation, not an error.
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, product *domain.ProductInfo) (*domain.ProductAnalysis, error) {
	if product == nil {
		return nil, domain.ErrInvalidRequest
	}

	result := &domain.ProductAnalysis{
		ProductID:   product.ID,
		ProductName: product.ProductName,
		BrandName:   product.BrandName,
	}

	if len(product.NutritionalInformation) == 0 {
		return invalidAnalysis(result, fmt.Errorf("%w: nutritional information is missing", domain.ErrInvalidProductData)), nil
	}

	extracted := ExtractNutrients(product)
	result.Extracted = extracted
	if err := ValidateExtraction(extracted); err != nil {
		log.Printf("[Analysis] Product %q rejected: %v", product.ProductName, err)
		return invalidAnalysis(result, err), nil
	}

	servingSize := *extracted.ServingSize
	thresholds, err := CompareThresholds(extracted.ProductType, extracted.Calories, extracted.Sugar, extracted.Salt, servingSize)
	if err != nil {
		return nil, err
	}
	result.Thresholds = thresholds
	if s.debug {
		log.Printf("[Analysis] Threshold analysis: %s", thresholds.Analysis)
	}

	if s.generator == nil {
		return nil, fmt.Errorf("%w: no text generator configured", domain.ErrLLMFailure)
	}

	panel, err := s.readPanel(ctx, product.NutritionalInformation)
	if err != nil {
		log.Printf("[Analysis] Panel read failed for %q: %v", product.ProductName, err)
		return nil, err
	}

	rda, err := ScaleToRDA(panel, servingSize)
	if err != nil {
		return nil, err
	}
	result.Panel = &rda.NutritionPerServing
	result.RDA = &rda.Percentages

	explanation, err := s.explain(ctx, thresholds.Analysis, RDASummary(rda.Percentages))
	if err != nil {
		log.Printf("[Analysis] Explanation failed for %q: %v", product.ProductName, err)
		return nil, err
	}

	result.Valid = true
	result.Explanation = explanation
	return result, nil
}

func invalidAnalysis(result *domain.ProductAnalysis, reason error) *domain.ProductAnalysis {
	result.Valid = false
	result.Explanation = fmt.Sprintf("Product data is invalid, so no nutrient analysis was produced (%v).", reason)
	return result
}

// readPanel returns the eleven-nutrient panel for a nutrition table, asking the
// text generator only on cache miss
func (s *AnalysisService) readPanel(ctx context.Context, nutrition []domain.NutrientEntry) (domain.NutrientPanel, error) {
	nutritionJSON, err := json.Marshal(nutrition)
	if err != nil {
		return domain.NutrientPanel{}, fmt.Errorf("failed to encode nutrition information: %w", err)
	}

	cacheKey := generatePanelCacheKey(nutritionJSON)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return *cached, nil
	}

	text, err := s.generator.Generate(ctx, domain.Prompt{
		System:     panelSystemPrompt,
		User:       panelUserPrompt(nutritionJSON),
		SchemaName: "Nutritional_Info_Label_Reader",
		JSONSchema: panelSchema(),
	})
	if err != nil {
		return domain.NutrientPanel{}, err
	}

	raw, err := decodePanelResponse(text)
	if err != nil {
		return domain.NutrientPanel{}, fmt.Errorf("%w: panel response is not JSON: %v", domain.ErrLLMFailure, err)
	}

	panel, err := ParsePanel(raw)
	if err != nil {
		return domain.NutrientPanel{}, err
	}

	if err := s.setInCache(ctx, cacheKey, &panel); err != nil {
		log.Printf("[Analysis] Cache write failed for %s: %v", cacheKey, err)
	}
	return panel, nil
}

func (s *AnalysisService) explain(ctx context.Context, thresholdAnalysis, rdaSummary string) (string, error) {
	userPrompt := explanationUserPrompt(thresholdAnalysis, rdaSummary)
	if s.debug {
		log.Printf("[Analysis] user_prompt:\n%s", userPrompt)
	}
	return s.generator.Generate(ctx, domain.Prompt{
		System: explanationSystemPrompt,
		User:   userPrompt,
	})
}

// generatePanelCacheKey keys panels by the content of the nutrition table.
// Format: "panel:{sha256 hex}"
func generatePanelCacheKey(nutritionJSON []byte) string {
	sum := sha256.Sum256(nutritionJSON)
	return "panel:" + hex.EncodeToString(sum[:])
}

// getFromCache retrieves a panel from cache
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.NutrientPanel, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[Analysis] Cache read failed for %s: %v", key, err)
		}
		return nil, err
	}

	var panel domain.NutrientPanel
	if err := json.Unmarshal(data, &panel); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &panel, nil
}

// setInCache stores a panel in cache
func (s *AnalysisService) setInCache(ctx context.Context, key string, panel *domain.NutrientPanel) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(panel)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
