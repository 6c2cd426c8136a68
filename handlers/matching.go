package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tapstead/models"
	"tapstead/services/matching"
	"tapstead/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionTTL bounds how long a quote stays bookable.
const sessionTTL = 30 * time.Minute

// MatchHandler serves provider search and quote sessions.
type MatchHandler struct {
	MatchingSvc matching.MatchingService
	Cache       *redis.Client
	Logger      *zap.Logger
}

func NewMatchHandler(matchingSvc matching.MatchingService, cache *redis.Client, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{MatchingSvc: matchingSvc, Cache: cache, Logger: logger}
}

type searchRequest struct {
	CustomerID string                  `json:"customerId" binding:"required"`
	Criteria   models.MatchingCriteria `json:"criteria" binding:"required"`
}

// SearchProviders runs the matching engine and caches the ranked result as a
// quote session so a later confirm call can book against it.
func (h *MatchHandler) SearchProviders(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	matches, err := h.MatchingSvc.FindMatchingProviders(c.Request.Context(), req.Criteria)
	if err != nil {
		var vErr *matching.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid matching criteria", vErr.Error())
			return
		}
		// Whole-search upstream failure: explicitly not "zero matches".
		h.Logger.Error("provider search failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "search failed", "something went wrong, try again")
		return
	}

	if len(matches) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"sessionId": "",
			"matches":   []models.ProviderMatch{},
			"message":   "no providers available for this time — try another slot",
		})
		return
	}

	session := models.MatchSession{
		SessionID:  uuid.New().String(),
		Criteria:   req.Criteria,
		Matches:    matches,
		CustomerID: req.CustomerID,
	}
	if err := h.storeSession(c.Request.Context(), session); err != nil {
		h.Logger.Error("failed to cache match session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to store match session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.SessionID,
		"matches":   matches,
	})
}

func (h *MatchHandler) storeSession(ctx context.Context, session models.MatchSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return h.Cache.Set(ctx, session.SessionID, data, sessionTTL).Err()
}
