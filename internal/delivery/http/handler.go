package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
	"github.com/solarprices/backend/internal/infrastructure/catalog"
	"github.com/solarprices/backend/internal/usecase"
)

const (
	serviceName    = "Solar Components Price Scraper"
	serviceVersion = "1.1"

	// priceCacheControl lets clients and CDNs reuse price answers for a day
	priceCacheControl = "public, max-age=86400"
)

// PriceResolver is the price use case consumed by the handlers
type PriceResolver interface {
	Resolve(ctx context.Context, source domain.SourceID, product domain.ProductKey) domain.ResolvedPrice
	Table(source domain.SourceID) (domain.SourceID, map[domain.ProductKey]decimal.Decimal)
	NormalizeSource(raw string) domain.SourceID
	DefaultSource() domain.SourceID
}

// PreferenceStore is the language preference use case consumed by the handlers
type PreferenceStore interface {
	GetLanguage(ctx context.Context, client string) (*usecase.LanguagePreference, error)
	SetLanguage(ctx context.Context, client, lang string) (*usecase.LanguagePreference, error)
	StoredCount() int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prices      PriceResolver
	preferences PreferenceStore
	now         func() time.Time
}

// NewHandler creates a new HTTP handler. preferences may be nil, in which
// case the preference endpoints answer 501.
func NewHandler(prices PriceResolver, preferences PreferenceStore) *Handler {
	return &Handler{
		prices:      prices,
		preferences: preferences,
		now:         time.Now,
	}
}

// PricesResponse is the envelope of GET /prices
type PricesResponse struct {
	Success   bool                          `json:"success"`
	Source    domain.SourceID               `json:"source"`
	Prices    map[domain.ProductKey]float64 `json:"prices"`
	Methods   map[domain.ProductKey]string  `json:"methods"`
	Timestamp string                        `json:"timestamp"`
	Cached    bool                          `json:"cached"`
}

// ErrorResponse is the envelope of failed price requests
type ErrorResponse struct {
	Success bool                          `json:"success"`
	Error   string                        `json:"error"`
	Prices  map[domain.ProductKey]float64 `json:"prices"`
}

// pricesQuery binds GET /prices query parameters
type pricesQuery struct {
	Source  string `form:"source"`
	Product string `form:"product"`
}

// GetPrices resolves one product, or returns the whole fallback table of a
// source when no product is given.
func (h *Handler) GetPrices(c *gin.Context) {
	var q pricesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.abortWithFallback(c, err)
		return
	}

	source := h.prices.NormalizeSource(q.Source)

	resp := PricesResponse{
		Success: true,
		Source:  source,
		Prices:  map[domain.ProductKey]float64{},
		Methods: map[domain.ProductKey]string{},
		Cached:  false,
	}

	if q.Product == "" {
		tableSource, table := h.prices.Table(source)
		resp.Source = tableSource
		for key, price := range table {
			resp.Prices[key] = price.InexactFloat64()
			resp.Methods[key] = string(domain.MethodFallback)
		}
		resp.Timestamp = h.now().UTC().Format(time.RFC3339Nano)
	} else {
		key := domain.ProductKey(q.Product)
		resolved := h.prices.Resolve(c.Request.Context(), source, key)
		resp.Prices[key] = resolved.Price.InexactFloat64()
		resp.Methods[key] = string(resolved.Method)
		resp.Timestamp = resolved.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	c.Header("Cache-Control", priceCacheControl)
	c.JSON(http.StatusOK, resp)
}

// Describe returns the capability/version document
func (h *Handler) Describe(c *gin.Context) {
	c.Header("Cache-Control", priceCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"name":    serviceName,
		"version": serviceVersion,
		"endpoints": gin.H{
			"/prices?source=leroy":            "Get prices from Leroy Merlin",
			"/prices?source=obramat":          "Get prices from Obramat",
			"/prices?source=alacen":           "Get prices from Almacén Fotovoltaico",
			"/prices?source=google":           "Get prices from Google Shopping",
			"/prices?source=X&product=s02_3":  "Get specific product price",
			"/preferences/language?client=ID": "Get the stored UI language",
			"PUT /preferences/language":       "Store the UI language (es, en, ar)",
			"/health":                         "Health check",
		},
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "solarprices-backend",
		"version": serviceVersion,
	}
	if h.preferences != nil {
		resp["preferences_stored"] = h.preferences.StoredCount()
	}
	c.JSON(http.StatusOK, resp)
}

// languageRequest is the body of PUT /preferences/language
type languageRequest struct {
	Client   string `json:"client" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// GetLanguage returns the language stored for ?client=
func (h *Handler) GetLanguage(c *gin.Context) {
	if h.preferences == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "preference store not configured"})
		return
	}

	pref, err := h.preferences.GetLanguage(c.Request.Context(), c.Query("client"))
	if err != nil {
		h.preferenceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, pref)
}

// SetLanguage stores the UI language of a client
func (h *Handler) SetLanguage(c *gin.Context) {
	if h.preferences == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "preference store not configured"})
		return
	}

	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := h.preferences.SetLanguage(c.Request.Context(), req.Client, req.Language)
	if err != nil {
		h.preferenceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, pref)
}

func (h *Handler) preferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidLanguage), errors.Is(err, domain.ErrInvalidClient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// abortWithFallback answers 500 with the default source's table
func (h *Handler) abortWithFallback(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, fallbackErrorResponse(h.prices, err.Error()))
}

func fallbackErrorResponse(prices PriceResolver, message string) ErrorResponse {
	resp := ErrorResponse{
		Success: false,
		Error:   message,
		Prices:  map[domain.ProductKey]float64{},
	}
	if prices == nil {
		return resp
	}
	_, table := prices.Table(prices.DefaultSource())
	for _, key := range catalog.Keys(table) {
		resp.Prices[key] = table[key].InexactFloat64()
	}
	return resp
}
