package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/response"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search runs a cross-kind title search. Returns 503 when no search
// backend is configured; the per-kind list endpoints accept a ?search=
// parameter that always works.
func (h *SearchHandler) Search(c *gin.Context) {
	profile, ok := actor(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	res, err := h.searchService.Search(profile, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
