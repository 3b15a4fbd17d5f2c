package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service"
)

const (
	defaultOrdersLimit = 50
	maxOrdersLimit     = 200
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderCreateParams struct {
	ServiceID int64  `binding:"required,gt=0" json:"service_id"`
	Link      string `binding:"required,url"  json:"link"`
	Quantity  int    `binding:"required,gt=0" json:"quantity"`
}

type OrderResponse struct {
	ID         int64                  `json:"id"`
	ServiceID  int64                  `json:"service_id"`
	Link       string                 `json:"link"`
	Quantity   int                    `json:"quantity"`
	Charge     string                 `json:"charge"`
	LocalRef   string                 `json:"local_ref"`
	ExternalID *string                `json:"external_id,omitempty"`
	Status     domain.OrderStatusType `json:"status"`
	StartCount *int                   `json:"start_count,omitempty"`
	Remains    *int                   `json:"remains,omitempty"`
	Notes      *string                `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:         order.ID,
		ServiceID:  order.ServiceID,
		Link:       order.Link,
		Quantity:   order.Quantity,
		Charge:     order.Charge.StringFixed(domain.MoneyScale),
		LocalRef:   order.LocalRef,
		ExternalID: order.ExternalID,
		Status:     order.Status,
		StartCount: order.StartCount,
		Remains:    order.Remains,
		Notes:      order.Notes,
		CreatedAt:  order.CreatedAt,
	}
}

// Create POST RouteGroup + OrdersRoute. Покупка услуги: валидация, списание баланса и
// создание заказа проходят одной транзакцией на сервисном слое.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params OrderCreateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, currentUserID, service.CreateOrderArgs{
		ServiceID: params.ServiceID,
		Link:      params.Link,
		Quantity:  params.Quantity,
	})
	if createErr != nil {
		var fundsErr *domain.InsufficientFundsError
		var rangeErr *domain.QuantityRangeError

		switch {
		case errors.As(createErr, &fundsErr):
			_ = c.AbortWithError(http.StatusPaymentRequired, fundsErr).SetType(gin.ErrorTypePublic)
		case errors.As(createErr, &rangeErr):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, rangeErr).SetType(gin.ErrorTypePublic)
		case errors.Is(createErr, domain.ErrServiceNotFound):
			_ = c.AbortWithError(http.StatusNotFound, errors.New("service not found")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(createErr, domain.ErrAccountUnavailable):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is not active"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, createErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": newOrderResponse(order)})
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего юзера, новые первыми, с опциональным
// фильтром по статусу.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	limit, offset := paginationParams(c, defaultOrdersLimit, maxOrdersLimit)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.List(reqCtx, repoargs.ListOrders{
		UserID: currentUserID,
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

// Show GET RouteGroup + OrderRoute. Чужой заказ не-админу не показывается.
func (o *OrdersHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	orderID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetByID(reqCtx, orderID, currentUserID, isAdminFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrOwnerConflict):
			// чужой заказ неотличим от несуществующего
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

// Cancel DELETE RouteGroup + OrderRoute. Отмена заказов отключена: деньги уже списаны,
// а провайдер отмену не гарантирует.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	orderID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	err := o.orderSvs.Cancel(reqCtx, orderID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, domain.ErrCancelDisabled):
		_ = c.AbortWithError(http.StatusConflict, errors.New("order cancellation is disabled")).
			SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
