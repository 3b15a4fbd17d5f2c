package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service/mocks"
	"github.com/fsdevblog/smmpanel/pkg/uow"
	uowmocks "github.com/fsdevblog/smmpanel/pkg/uow/mocks"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockUserRepo        *mocks.MockUserRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	jwtSecret           []byte
	userService         *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	// Инициализация сервиса.
	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return string(hash)
}

func (s *UserServiceTestSuite) TestRegister() {
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)

	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal(email, args.Email)
			// в базу уходит хэш, не исходный пароль.
			s.NotEqual(password, args.Password)
			s.NoError(bcrypt.CompareHashAndPassword([]byte(args.Password), []byte(password)))
			return &domain.User{ID: 1, Email: args.Email, Role: domain.RoleUser}, nil
		})

	user, token, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Email:    email,
		Name:     gofakeit.Name(),
		Password: password,
	})
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(email, user.Email)
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Email:    gofakeit.Email(),
		Name:     gofakeit.Name(),
		Password: "password123",
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	email := gofakeit.Email()
	password := "correct horse battery"

	savedUser := &domain.User{
		ID:       1,
		Email:    email,
		Password: s.hashPassword(password),
		Status:   domain.UserStatusActive,
	}

	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), email).Return(savedUser, nil).Times(2)
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), "unknown@example.com").
		Return(nil, domain.ErrRecordNotFound)
	// отметка посещения только при успешном входе.
	s.mockUserRepo.EXPECT().TouchLastSeen(gomock.Any(), savedUser.ID).Return(nil).Times(1)

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: LoginUserArgs{Email: email, Password: password}, wantErr: nil},
		{
			name:    "wrong password",
			args:    LoginUserArgs{Email: email, Password: "wrong"},
			wantErr: domain.ErrPasswordMissMatch,
		},
		{
			// неизвестный email неотличим от неверного пароля.
			name:    "unknown email",
			args:    LoginUserArgs{Email: "unknown@example.com", Password: password},
			wantErr: domain.ErrPasswordMissMatch,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, token, err := s.userService.Login(s.T().Context(), t.args)
			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.NotEmpty(token)
			s.Equal(savedUser.ID, user.ID)
		})
	}
}

func (s *UserServiceTestSuite) TestLogin_InactiveAccount() {
	email := gofakeit.Email()
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), email).
		Return(&domain.User{
			ID:       1,
			Email:    email,
			Password: s.hashPassword("password123"),
			Status:   domain.UserStatusSuspended,
		}, nil)

	_, _, err := s.userService.Login(s.T().Context(), LoginUserArgs{Email: email, Password: "password123"})
	s.Require().ErrorIs(err, domain.ErrAccountUnavailable)
}

func (s *UserServiceTestSuite) TestChangePassword() {
	savedUser := &domain.User{ID: 1, Password: s.hashPassword("old password")}

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), savedUser.ID).Return(savedUser, nil).Times(2)
	s.mockUserRepo.EXPECT().UpdatePassword(gomock.Any(), savedUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, hash string) error {
			s.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("new password")))
			return nil
		}).Times(1)

	s.Require().NoError(s.userService.ChangePassword(s.T().Context(), savedUser.ID, "old password", "new password"))

	err := s.userService.ChangePassword(s.T().Context(), savedUser.ID, "wrong", "new password")
	s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) expectAdjustTx() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransactionRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).AnyTimes()
}

func (s *UserServiceTestSuite) TestAdjustBalance() {
	var userID int64 = 42
	balance := decimal.NewFromInt(5)
	amount := decimal.NewFromFloat(10.5)

	s.expectAdjustTx()

	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: balance, Status: domain.UserStatusActive}, nil)
	s.mockUserRepo.EXPECT().SetBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.SetBalance) error {
			s.Equal(userID, args.UserID)
			s.True(decimal.NewFromFloat(15.5).Equal(args.Balance))
			return nil
		})
	s.mockTransactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error) {
			s.Equal(domain.TransactionKindTopup, args.Kind)
			s.True(amount.Equal(args.Amount))
			s.True(balance.Equal(args.BalanceBefore))
			s.True(decimal.NewFromFloat(15.5).Equal(args.BalanceAfter))
			return &domain.Transaction{ID: 1, UserID: userID}, nil
		})

	transaction, err := s.userService.AdjustBalance(
		s.T().Context(), userID, amount, domain.TransactionKindTopup, "manual topup")
	s.Require().NoError(err)
	s.Equal(userID, transaction.UserID)
}

func (s *UserServiceTestSuite) TestAdjustBalance_BelowZero() {
	var userID int64 = 42

	s.expectAdjustTx()

	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: decimal.NewFromInt(5)}, nil)
	s.mockUserRepo.EXPECT().SetBalance(gomock.Any(), gomock.Any()).Times(0)
	s.mockTransactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.userService.AdjustBalance(
		s.T().Context(), userID, decimal.NewFromInt(-6), domain.TransactionKindAdjustment, "correction")

	var fundsErr *domain.InsufficientFundsError
	s.Require().ErrorAs(err, &fundsErr)
}

func (s *UserServiceTestSuite) TestAdjustBalance_ChargeKindRejected() {
	// списания за заказ проводит только создание заказа, руками их делать нельзя.
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.userService.AdjustBalance(
		s.T().Context(), 42, decimal.NewFromInt(1), domain.TransactionKindCharge, "nope")
	s.Require().Error(err)
}
