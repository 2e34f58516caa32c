// Package rest is the operator maintenance surface: watchlist mutations
// and history queries, outside the scheduled run.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/avelar/pricewatch/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	watchlist *usecase.WatchlistUsecase
	history   domain.HistoryRepository
	logger    *zap.Logger
}

func NewHandlers(watchlist *usecase.WatchlistUsecase, history domain.HistoryRepository, logger *zap.Logger) *Handlers {
	return &Handlers{watchlist: watchlist, history: history, logger: logger}
}

type addProductRequest struct {
	URL         string  `json:"url" binding:"required"`
	TargetPrice *string `json:"target_price"`
}

type setTargetRequest struct {
	TargetPrice *string `json:"target_price"`
}

type productResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Name        string  `json:"name"`
	TargetPrice *string `json:"target_price,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type observationResponse struct {
	ObservedAt string `json:"observed_at"`
	Price      string `json:"price,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Outcome    string `json:"outcome"`
}

func (h *Handlers) AddProduct(c *gin.Context) {
	var input addProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	target, err := parseTarget(input.TargetPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target price"})
		return
	}

	product, err := h.watchlist.Add(c.Request.Context(), input.URL, target)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidProductURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product url"})
		case errors.Is(err, domain.ErrDuplicateProduct):
			c.JSON(http.StatusConflict, gin.H{"error": "product already tracked"})
		default:
			h.logger.Error("add product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
		}
		return
	}
	c.JSON(http.StatusCreated, mapProduct(*product))
}

func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.watchlist.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	response := make([]productResponse, 0, len(products))
	for _, product := range products {
		response = append(response, mapProduct(product))
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handlers) RemoveProduct(c *gin.Context) {
	err := h.watchlist.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("remove product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove product"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) SetTarget(c *gin.Context) {
	var input setTargetRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	target, err := parseTarget(input.TargetPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target price"})
		return
	}

	if err := h.watchlist.SetTarget(c.Request.Context(), c.Param("id"), target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("set target failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set target"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) GetHistory(c *gin.Context) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
		return
	}

	observations, err := h.history.ListByProduct(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		h.logger.Error("history query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	response := make([]observationResponse, 0, len(observations))
	for _, observation := range observations {
		entry := observationResponse{
			ObservedAt: observation.ObservedAt.Format(time.RFC3339),
			Outcome:    string(observation.Outcome),
		}
		if observation.Outcome == domain.OutcomeSuccess {
			entry.Price = observation.Price.String()
			entry.Currency = observation.Currency
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

func mapProduct(product domain.Product) productResponse {
	response := productResponse{
		ID:        product.ID,
		URL:       product.URL,
		Name:      product.Name,
		CreatedAt: product.CreatedAt.Format(time.RFC3339),
	}
	if product.TargetPrice != nil {
		value := product.TargetPrice.String()
		response.TargetPrice = &value
	}
	return response
}

func parseTarget(raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
