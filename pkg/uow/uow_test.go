package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

const recordsRepoName = RepositoryName("records")

// recordsRepo минимальный репозиторий для прогона SQL через юнит оф ворк в тестах.
type recordsRepo struct {
	db DBTX
}

func newRecordsRepo(db DBTX) Repository {
	return &recordsRepo{db: db}
}

func (r *recordsRepo) touch(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "UPDATE records SET updated_at = now()")
	return err
}

type UnitOfWorkTestSuite struct {
	suite.Suite
	pool pgxmock.PgxPoolIface
	uow  *UnitOfWork
}

func TestUnitOfWorkSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	pool, poolErr := pgxmock.NewPool()
	s.Require().NoError(poolErr)
	s.pool = pool

	s.uow = NewUnitOfWork(pool)
	s.Require().NoError(s.uow.Register(recordsRepoName, newRecordsRepo))
}

func (s *UnitOfWorkTestSuite) TearDownTest() {
	s.NoError(s.pool.ExpectationsWereMet())
	s.pool.Close()
}

func (s *UnitOfWorkTestSuite) TestDo_CommitsOnSuccess() {
	s.pool.ExpectBegin()
	s.pool.ExpectExec("UPDATE records").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.pool.ExpectCommit()
	// отложенный Rollback после успешного Commit эффекта не имеет.
	s.pool.ExpectRollback()

	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		repo, repoErr := GetAs[*recordsRepo](tx, recordsRepoName)
		if repoErr != nil {
			return repoErr
		}
		return repo.touch(ctx)
	})
	s.Require().NoError(err)
}

// TestDo_RollsBackOnError Ошибка из fn откатывает транзакцию целиком: Commit не вызывается,
// а сама ошибка доходит до вызывающего без изменений.
func (s *UnitOfWorkTestSuite) TestDo_RollsBackOnError() {
	fnErr := errors.New("storage unavailable")

	s.pool.ExpectBegin()
	s.pool.ExpectRollback()

	err := s.uow.Do(s.T().Context(), func(_ context.Context, _ TX) error {
		return fnErr
	})
	s.Require().ErrorIs(err, fnErr)
}

func (s *UnitOfWorkTestSuite) TestDo_BeginError() {
	beginErr := errors.New("connection refused")
	s.pool.ExpectBegin().WillReturnError(beginErr)

	var fnCalled bool
	err := s.uow.Do(s.T().Context(), func(_ context.Context, _ TX) error {
		fnCalled = true
		return nil
	})
	s.Require().ErrorIs(err, beginErr)
	s.False(fnCalled)
}

func (s *UnitOfWorkTestSuite) TestDo_CommitError() {
	commitErr := errors.New("commit failed")

	s.pool.ExpectBegin()
	s.pool.ExpectCommit().WillReturnError(commitErr)
	s.pool.ExpectRollback()

	err := s.uow.Do(s.T().Context(), func(_ context.Context, _ TX) error {
		return nil
	})
	s.Require().ErrorIs(err, commitErr)
}

func (s *UnitOfWorkTestSuite) TestRegister_Duplicate() {
	err := s.uow.Register(recordsRepoName, newRecordsRepo)
	s.Require().ErrorIs(err, ErrRepositoryAlreadyRegistered)
}

func (s *UnitOfWorkTestSuite) TestGetRepository_NotRegistered() {
	_, err := s.uow.GetRepository(RepositoryName("missing"))
	s.Require().ErrorIs(err, ErrRepositoryNotRegistered)
}

func (s *UnitOfWorkTestSuite) TestGetRepositoryAs_InvalidType() {
	_, err := GetRepositoryAs[*UnitOfWork](s.uow, recordsRepoName)
	s.Require().ErrorIs(err, ErrInvalidRepositoryType)
}

func (s *UnitOfWorkTestSuite) TestTxGet_NotRegistered() {
	s.pool.ExpectBegin()
	s.pool.ExpectRollback()

	err := s.uow.Do(s.T().Context(), func(_ context.Context, tx TX) error {
		_, getErr := tx.Get(RepositoryName("missing"))
		return getErr
	})
	s.Require().ErrorIs(err, ErrRepositoryNotRegistered)
}
