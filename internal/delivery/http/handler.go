package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/labelcheck/backend/internal/domain"
	"github.com/labelcheck/backend/internal/usecase"
)

const (
	serviceName    = "labelcheck-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
	products *usecase.ProductService
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints
// answer 503.
func NewHandler(analysis *usecase.AnalysisService, products *usecase.ProductService) *Handler {
	return &Handler{
		analysis: analysis,
		products: products,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ExtractNutrients returns the (type, calories, sugar, salt, serving size) tuple of a product
func (h *Handler) ExtractNutrients(c *gin.Context) {
	var product domain.ProductInfo
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		return
	}
	c.JSON(http.StatusOK, usecase.ExtractNutrients(&product))
}

// CompareThresholds compares per-serving calories, sugar and salt with the thresholds
func (h *Handler) CompareThresholds(c *gin.Context) {
	var req domain.ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		return
	}

	result, err := usecase.CompareThresholds(req.ProductType, req.Calories, req.Sugar, req.Salt, req.ServingSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CalculateRDA scales a per-serving panel to the user serving size and returns the
// RDA percentages keyed by nutrient
func (h *Handler) CalculateRDA(c *gin.Context) {
	var req domain.RDARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		return
	}

	result, err := usecase.FindNutrition(&req)
	if err != nil {
		var verr *domain.PanelValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input", "fields": verr.Fields()})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nutrition data"})
		case errors.Is(err, domain.ErrInvalidServingSize):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user serving size"})
		case errors.Is(err, domain.ErrInvalidNumeric):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		default:
			h.writeError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, result.Percentages)
}

// AnalyzeProduct runs the full assessment on a product record sent in the body
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis service not configured"})
		return
	}

	var product domain.ProductInfo
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		return
	}

	result, err := h.analysis.AnalyzeProduct(c.Request.Context(), &product)
	h.writeAnalysis(c, result, err)
}

// AnalyzeStoredProduct runs the full assessment on a stored product
func (h *Handler) AnalyzeStoredProduct(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis service not configured"})
		return
	}

	result, err := h.analysis.AnalyzeStoredProduct(c.Request.Context(), c.Param("id"))
	h.writeAnalysis(c, result, err)
}

func (h *Handler) writeAnalysis(c *gin.Context, result *domain.ProductAnalysis, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateProduct stores a product record
func (h *Handler) CreateProduct(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Product store not configured"})
		return
	}

	var product domain.ProductInfo
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON or input"})
		return
	}

	saved, err := h.products.SaveProduct(c.Request.Context(), &product)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// GetProduct returns a stored product
func (h *Handler) GetProduct(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Product store not configured"})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts returns recently updated products
func (h *Handler) ListProducts(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Product store not configured"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	products, err := h.products.ListProducts(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// writeError maps domain errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidProductType),
		errors.Is(err, domain.ErrInvalidServingSize),
		errors.Is(err, domain.ErrZeroBaselineServing),
		errors.Is(err, domain.ErrInvalidNumeric),
		errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidProductData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrLLMFailure):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
