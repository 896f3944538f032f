package util

import (
	"strconv"

	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/gin-gonic/gin"
)

func CalculateTotalPage(totalItems int64, pageSize uint) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	if totalItems == 0 {
		return 1
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}

// ReadPagination reads ?page=&pageSize= with defaults, clamping pageSize to MaxPageSize.
func ReadPagination(ctx *gin.Context) (uint, uint) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(ctx.DefaultQuery("pageSize", strconv.Itoa(constant.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = constant.DefaultPageSize
	}
	if pageSize > constant.MaxPageSize {
		pageSize = constant.MaxPageSize
	}

	return uint(page), uint(pageSize)
}
