package handlers

import (
	"errors"
	"net/http"

	"tasktrack/backend/internal/suggest"
	"tasktrack/backend/internal/validation"

	"github.com/gin-gonic/gin"
)

type LabelHandler struct {
	client *suggest.Client
}

func NewLabelHandler(client *suggest.Client) *LabelHandler {
	return &LabelHandler{client: client}
}

type suggestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SuggestLabels is best-effort: an upstream failure is reported to
// the caller and touches nothing else.
func (h *LabelHandler) SuggestLabels(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		abortNotAuthenticated(c)
		return
	}

	var input suggestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	labels, err := h.client.Suggest(c.Request.Context(), input.Title, input.Description)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"labels": labels})
}
