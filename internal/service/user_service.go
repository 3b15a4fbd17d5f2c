package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service/tokens"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

const JWTTokenExpire = 24 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte) (*UserService, error) {
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Email    string
	Name     string
	Password string
}

// Register создает юзера и выдает jwt токен. Возвращает созданного юзера, токен и ошибку.
// Повторная регистрация email дает domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	user, createErr := s.userRepo.CreateUser(ctx, repoargs.CreateUser{
		Email:    args.Email,
		Name:     args.Name,
		Password: password,
	})
	if createErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", createErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", tokenErr.Error())
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// Login проверяет учетные данные и статус аккаунта. Неактивный аккаунт получает
// domain.ErrAccountUnavailable, неверный пароль - domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByEmail(ctx, args.Email)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil, "", domain.ErrPasswordMissMatch
		}
		return nil, "", fmt.Errorf("logging in: %w", findErr)
	}

	if user.Status != domain.UserStatusActive {
		return nil, "", domain.ErrAccountUnavailable
	}

	if !s.comparePasswords(user.Password, args.Password) {
		return nil, "", domain.ErrPasswordMissMatch
	}

	if touchErr := s.userRepo.TouchLastSeen(ctx, user.ID); touchErr != nil {
		return nil, "", fmt.Errorf("logging in: %w", touchErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in: %s", tokenErr.Error())
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit, offset uint) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return users, nil
}

// ChangePassword меняет пароль юзера после проверки старого.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, findErr := s.userRepo.FindByID(ctx, userID)
	if findErr != nil {
		return fmt.Errorf("changing password: %w", findErr)
	}
	if !s.comparePasswords(user.Password, oldPassword) {
		return domain.ErrPasswordMissMatch
	}

	hash, hashErr := s.hashPassword(newPassword)
	if hashErr != nil {
		return fmt.Errorf("changing password: %s", hashErr.Error())
	}
	if updErr := s.userRepo.UpdatePassword(ctx, userID, hash); updErr != nil {
		return fmt.Errorf("changing password: %w", updErr)
	}
	return nil
}

// AdjustBalance административная корректировка баланса: та же транзакционная дисциплина,
// что и у списания за заказ - блокировка строки юзера, новая запись журнала, один коммит.
// Отрицательная корректировка не может увести баланс в минус.
func (s *UserService) AdjustBalance(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
	kind domain.TransactionKind,
	description string,
) (*domain.Transaction, error) {
	if kind != domain.TransactionKindTopup && kind != domain.TransactionKindAdjustment {
		return nil, fmt.Errorf("adjusting balance: unexpected transaction kind %q", kind)
	}

	var transaction *domain.Transaction

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, repoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		transactionRepo, repoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindActiveForUpdate(c, userID)
		if userErr != nil {
			if errors.Is(userErr, domain.ErrRecordNotFound) {
				return domain.ErrAccountUnavailable
			}
			return userErr //nolint:wrapcheck
		}

		newBalance := user.Balance.Add(amount).Round(domain.MoneyScale)
		if newBalance.IsNegative() {
			return domain.NewInsufficientFundsError(amount.Neg(), user.Balance)
		}

		if balanceErr := userRepo.SetBalance(c, repoargs.SetBalance{
			UserID:  userID,
			Balance: newBalance,
		}); balanceErr != nil {
			return balanceErr //nolint:wrapcheck
		}

		var tErr error
		transaction, tErr = transactionRepo.Create(c, repoargs.CreateTransaction{
			UserID:        userID,
			Kind:          kind,
			Amount:        amount,
			BalanceBefore: user.Balance,
			BalanceAfter:  newBalance,
			Description:   description,
		})
		return tErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("adjusting balance: %w", txErr)
	}
	return transaction, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (s *UserService) comparePasswords(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
