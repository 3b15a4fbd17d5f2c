package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка
// утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDValue, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		return 0
	}
	return userID
}

// isAdminFromContext проверяет роль текущего юзера из контекста gin.
func isAdminFromContext(c *gin.Context) bool {
	roleValue, exist := c.Get(middlewares.CurrentUserRoleKey)
	if !exist {
		return false
	}
	role, ok := roleValue.(domain.RoleType)
	return ok && role == domain.RoleAdmin
}

// paginationParams limit/offset из query-параметров с дефолтом и верхней границей лимита.
func paginationParams(c *gin.Context, defaultLimit, maxLimit uint) (uint, uint) {
	limit := parseUintParam(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := parseUintParam(c.Query("offset"), 0)
	return limit, offset
}

func parseUintParam(raw string, defaultValue uint) uint {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return defaultValue
	}
	return uint(value)
}
