package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/middleware"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/response"
	"rtis.uz/deptrecords/pkg/validator"
)

// WorkHandler serves one work kind. The four kinds share every route
// shape, so a single generic handler covers methodical works, research
// works, certificates and software certificates.
type WorkHandler[In any, Out any] struct {
	svc service.WorkService[In, Out]
}

func NewWorkHandler[In any, Out any](svc service.WorkService[In, Out]) *WorkHandler[In, Out] {
	return &WorkHandler[In, Out]{svc: svc}
}

// Register mounts the CRUD routes on the given group. PUT and PATCH are
// aliases; partial semantics come from pointer fields in the payload.
func (h *WorkHandler[In, Out]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func actor(c *gin.Context) (*model.Profile, bool) {
	profile := middleware.ActorProfile(c)
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return profile, true
}

func parseRecordID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperror.BadRequest("invalid id")
	}
	return uint(id), nil
}

// workFiles picks the file parts out of a multipart request. JSON
// requests simply have none.
func workFiles(c *gin.Context) dto.WorkFiles {
	var files dto.WorkFiles
	if fh, err := c.FormFile("file"); err == nil {
		files.File = fh
	}
	if fh, err := c.FormFile("permission_file"); err == nil {
		files.PermissionFile = fh
	}
	return files
}

func (h *WorkHandler[In, Out]) List(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	var filter dto.WorkFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.svc.List(c.Request.Context(), profile, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler[In, Out]) Get(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.svc.Get(c.Request.Context(), profile, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler[In, Out]) Create(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	var input In
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), profile, input, workFiles(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *WorkHandler[In, Out]) Update(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input In
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.svc.Update(c.Request.Context(), profile, id, input, workFiles(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler[In, Out]) Delete(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), profile, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
