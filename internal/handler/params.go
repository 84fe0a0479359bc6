package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

func parseID(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Validation(key, "must be a positive integer")
	}
	return id, nil
}

// parseOptionalID reads an id filter from the query string. Empty means no filter.
func parseOptionalID(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, appErrors.Validation(key, "must be a positive integer")
	}
	return &id, nil
}

func parseQueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func parseDateRange(c *gin.Context) (models.DateRange, error) {
	from, err := dto.ParseDate("from", c.Query("from"))
	if err != nil {
		return models.DateRange{}, err
	}
	to, err := dto.ParseDate("to", c.Query("to"))
	if err != nil {
		return models.DateRange{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return models.DateRange{}, appErrors.Validation("to", "must not be before from")
	}
	return models.DateRange{From: from, To: to}, nil
}

func bindError(err error, msg string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
}
