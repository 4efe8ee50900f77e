package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
)

func parsePagination(c *gin.Context) (pagination.Pagination, error) {
	page := pagination.Pagination{
		PageToken: strings.TrimSpace(c.Query("page_token")),
	}

	size := strings.TrimSpace(c.Query("page_size"))
	if size != "" {
		parsed, err := strconv.Atoi(size)
		if err != nil || parsed < 0 {
			return pagination.Pagination{}, errors.New("invalid_page_size")
		}
		page.PageSize = parsed
	}

	return page, nil
}

func parseSnowflakeParam(c *gin.Context, name string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(c.Param(name)))
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid_snowflake_id")
	}
	return parsed, nil
}

func parseOptionalFloat(value string) (*float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
