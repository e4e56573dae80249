package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/response"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

func (h *StatsHandler) Admin(c *gin.Context) {
	res, err := h.statsService.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StatsHandler) Department(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	res, err := h.statsService.Department(c.Request.Context(), profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StatsHandler) Personal(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	res, err := h.statsService.Personal(c.Request.Context(), profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
