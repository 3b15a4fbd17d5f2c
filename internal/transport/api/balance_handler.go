package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/smmpanel/internal/domain"
)

const (
	defaultTransactionsLimit = 50
	maxTransactionsLimit     = 200
)

type BalanceHandler struct {
	svs BalanceServicer
}

func NewBalanceHandler(svs BalanceServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

// Index GET RouteGroup + BalanceRoute.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := b.svs.GetBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": user.Balance.StringFixed(domain.MoneyScale)})
}

type TransactionResponse struct {
	ID            int64                  `json:"id"`
	Kind          domain.TransactionKind `json:"kind"`
	Amount        string                 `json:"amount"`
	BalanceBefore string                 `json:"balance_before"`
	BalanceAfter  string                 `json:"balance_after"`
	Description   string                 `json:"description"`
	OrderID       *int64                 `json:"order_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Transactions GET RouteGroup + TransactionsRoute. Журнал движений баланса, новые первыми.
func (b *BalanceHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	limit, offset := paginationParams(c, defaultTransactionsLimit, maxTransactionsLimit)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := b.svs.GetHistory(reqCtx, currentUserID, limit, offset)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = TransactionResponse{
			ID:            transaction.ID,
			Kind:          transaction.Kind,
			Amount:        transaction.Amount.StringFixed(domain.MoneyScale),
			BalanceBefore: transaction.BalanceBefore.StringFixed(domain.MoneyScale),
			BalanceAfter:  transaction.BalanceAfter.StringFixed(domain.MoneyScale),
			Description:   transaction.Description,
			OrderID:       transaction.OrderID,
			CreatedAt:     transaction.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": response})
}
