package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/elk"
)

// Effects handles GET /effects
// @Summary      List effects
// @Description  Returns the built-in effects of the fixture
// @Tags         device
// @Produce      json
// @Success      200  {object}  types.EffectsResponse
// @Router       /effects [get]
func Effects(c *gin.Context) {
	effects := elk.Effects()
	c.JSON(http.StatusOK, types.EffectsResponse{
		Effects: effects,
		Count:   len(effects),
	})
}
