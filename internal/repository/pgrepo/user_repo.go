package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

const userColumns = `id, created_at, updated_at, email, name, password, balance, role, status, last_seen_at`

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		INSERT INTO users (email, name, password)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		args.Email, args.Name, args.Password)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user with email `%s`", args.Email)
	}
	return user, nil
}

// FindByEmail ищет юзера по email. Удаленные аккаунты считаются несуществующими.
func (u *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 AND status != $2`,
		email, domain.UserStatusDeleted)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by email `%s`", email)
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND status != $2`,
		id, domain.UserStatusDeleted)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindActiveForUpdate читает активного юзера с блокировкой строки (SELECT ... FOR UPDATE).
// Вызывается только внутри транзакции: блокировка сериализует конкурентные списания
// с одного аккаунта до коммита.
func (u *UserRepository) FindActiveForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND status = $2
		FOR UPDATE`,
		id, domain.UserStatusActive)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "locking user with id %d", id)
	}
	return user, nil
}

func (u *UserRepository) SetBalance(ctx context.Context, args repoargs.SetBalance) error {
	tag, err := u.db.Exec(ctx, `
		UPDATE users SET balance = $1, updated_at = now()
		WHERE id = $2`,
		args.Balance, args.UserID)
	if err != nil {
		return convertErr(err, "updating balance for user %d", args.UserID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating balance for user %d", args.UserID)
	}
	return nil
}

func (u *UserRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	tag, err := u.db.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = now()
		WHERE id = $2`,
		password, id)
	if err != nil {
		return convertErr(err, "updating password for user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating password for user %d", id)
	}
	return nil
}

func (u *UserRepository) TouchLastSeen(ctx context.Context, id int64) error {
	if _, err := u.db.Exec(ctx, `UPDATE users SET last_seen_at = now() WHERE id = $1`, id); err != nil {
		return convertErr(err, "touching last seen for user %d", id)
	}
	return nil
}

func (u *UserRepository) List(ctx context.Context, limit, offset uint) ([]domain.User, error) {
	rows, err := u.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE status != $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		domain.UserStatusDeleted, int64(limit), int64(offset))
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning user row")
		}
		users = append(users, *user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing users")
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.Balance,
		&user.Role,
		&user.Status,
		&user.LastSeenAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
