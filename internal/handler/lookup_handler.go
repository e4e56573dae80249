package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/response"
	"rtis.uz/deptrecords/pkg/validator"
)

type LookupHandler struct {
	lookupService service.LookupService
}

func NewLookupHandler(lookupService service.LookupService) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
	}
}

type nameInput struct {
	Name string `json:"name" binding:"required"`
}

func (h *LookupHandler) ListDepartments(c *gin.Context) {
	res, err := h.lookupService.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LookupHandler) CreateDepartment(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.lookupService.CreateDepartment(c.Request.Context(), input.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *LookupHandler) ListPositions(c *gin.Context) {
	res, err := h.lookupService.Positions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LookupHandler) CreatePosition(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.lookupService.CreatePosition(c.Request.Context(), input.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
