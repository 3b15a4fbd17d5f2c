package service

import (
	"context"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

// BalanceService read-only доступ к балансу и журналу движений. Мутации баланса живут
// исключительно в OrderService.Create и UserService.AdjustBalance.
type BalanceService struct {
	uow             uow.UOW
	userRepo        UserRepository
	transactionRepo TransactionRepository
}

func NewBalanceService(u uow.UOW) (*BalanceService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	transactionRepo, tRepoErr :=
		uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if tRepoErr != nil {
		return nil, tRepoErr
	}
	return &BalanceService{
		uow:             u,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}, nil
}

func (b *BalanceService) GetBalance(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := b.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// GetHistory возвращает записи журнала юзера, новые первыми.
func (b *BalanceService) GetHistory(ctx context.Context, userID int64, limit, offset uint) ([]domain.Transaction, error) {
	transactions, err := b.transactionRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}
