package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/util"
)

const (
	defaultPage    = 1
	defaultPerPage = 25
)

// parseListFilter reads page, per_page, query and order against schema. It
// answers 400 and returns false on bad input.
func parseListFilter(c *gin.Context, schema util.ListSchema) (util.ListFilter, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "page must be a positive integer")
		return util.ListFilter{}, false
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "per_page must be a positive integer")
		return util.ListFilter{}, false
	}

	filter, err := schema.Parse(c.Query("query"), c.Query("order"), page, perPage)
	if err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return util.ListFilter{}, false
	}
	return filter, true
}
