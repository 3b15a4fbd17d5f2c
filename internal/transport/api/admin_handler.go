package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
)

const (
	defaultUsersLimit = 50
	maxUsersLimit     = 200

	defaultResubmitLimit = 50
	maxResubmitLimit     = 500

	// resubmitTimeout батч переотправки держит паузу между вызовами провайдера,
	// стандартного таймаута сервисного слоя ему мало.
	resubmitTimeout = 2 * time.Minute
)

type AdminHandler struct {
	userSvs  UserServicer
	orderSvs OrderServicer
	syncer   ProviderSyncer
}

func NewAdminHandler(userSvs UserServicer, orderSvs OrderServicer, syncer ProviderSyncer) *AdminHandler {
	return &AdminHandler{
		userSvs:  userSvs,
		orderSvs: orderSvs,
		syncer:   syncer,
	}
}

type AdminUserResponse struct {
	ID         int64                 `json:"id"`
	Email      string                `json:"email"`
	Name       string                `json:"name"`
	Balance    string                `json:"balance"`
	Role       domain.RoleType       `json:"role"`
	Status     domain.UserStatusType `json:"status"`
	LastSeenAt *time.Time            `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// Users GET RouteGroup + AdminUsersRoute.
func (a *AdminHandler) Users(c *gin.Context) {
	limit, offset := paginationParams(c, defaultUsersLimit, maxUsersLimit)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := a.userSvs.List(reqCtx, limit, offset)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]AdminUserResponse, len(users))
	for i, user := range users {
		response[i] = AdminUserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Balance:    user.Balance.StringFixed(domain.MoneyScale),
			Role:       user.Role,
			Status:     user.Status,
			LastSeenAt: user.LastSeenAt,
			CreatedAt:  user.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": response})
}

type AdjustBalanceParams struct {
	Amount      decimal.Decimal        `binding:"required" json:"amount"`
	Kind        domain.TransactionKind `binding:"required" json:"kind"`
	Description string                 `binding:"max=255"  json:"description"`
}

// AdjustBalance POST RouteGroup + AdminAdjustRoute. Пополнение или корректировка баланса
// юзера; проводится той же транзакционной дисциплиной, что и списание за заказ.
func (a *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	var params AdjustBalanceParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := a.userSvs.AdjustBalance(reqCtx, userID, params.Amount, params.Kind, params.Description)
	if err != nil {
		var fundsErr *domain.InsufficientFundsError

		switch {
		case errors.As(err, &fundsErr):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, fundsErr).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAccountUnavailable):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": TransactionResponse{
		ID:            transaction.ID,
		Kind:          transaction.Kind,
		Amount:        transaction.Amount.StringFixed(domain.MoneyScale),
		BalanceBefore: transaction.BalanceBefore.StringFixed(domain.MoneyScale),
		BalanceAfter:  transaction.BalanceAfter.StringFixed(domain.MoneyScale),
		Description:   transaction.Description,
		CreatedAt:     transaction.CreatedAt,
	}})
}

// Orders GET RouteGroup + AdminOrdersRoute. Заказы всех юзеров с фильтром по статусу.
func (a *AdminHandler) Orders(c *gin.Context) {
	limit, offset := paginationParams(c, defaultOrdersLimit, maxOrdersLimit)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := a.orderSvs.List(reqCtx, repoargs.ListOrders{
		Status: domain.OrderStatusType(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, gin.H{"orders": response})
}

// Stats GET RouteGroup + AdminStatsRoute. Кол-во заказов в разбивке по статусам.
func (a *AdminHandler) Stats(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	counts, err := a.orderSvs.Stats(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	c.JSON(http.StatusOK, gin.H{"orders": counts, "total": total})
}

// ResubmitPending POST RouteGroup + AdminResubmitRoute. Переотправка провайдеру зависших
// Pending заказов, отчет по каждому заказу в ответе.
func (a *AdminHandler) ResubmitPending(c *gin.Context) {
	limit := parseUintParam(c.Query("limit"), defaultResubmitLimit)
	if limit > maxResubmitLimit {
		limit = maxResubmitLimit
	}

	reqCtx, cancel := context.WithTimeout(c, resubmitTimeout)
	defer cancel()

	result, err := a.orderSvs.ResubmitPending(reqCtx, limit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SyncStatuses POST RouteGroup + AdminSyncStatus. Внеплановая итерация синхронизации статусов.
func (a *AdminHandler) SyncStatuses(c *gin.Context) {
	if err := a.syncer.SyncStatuses(c); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

// SyncCatalog POST RouteGroup + AdminSyncCatalog. Внеплановая синхронизация каталога.
func (a *AdminHandler) SyncCatalog(c *gin.Context) {
	if err := a.syncer.SyncCatalog(c); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}
