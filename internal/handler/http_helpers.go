package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(value)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// pageParam 读取分页参数 p，非法值回退到第一页。
func pageParam(c *gin.Context) int {
	return parsePositiveInt(c.DefaultQuery("p", "1"), 1)
}
