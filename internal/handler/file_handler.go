package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/response"
)

type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

func (h *FileHandler) List(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	res, err := h.fileService.List(c.Request.Context(), profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FileHandler) Get(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.fileService.Get(c.Request.Context(), profile, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FileHandler) Upload(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	res, err := h.fileService.Upload(c.Request.Context(), profile, fileHeader)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *FileHandler) Delete(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), profile, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
