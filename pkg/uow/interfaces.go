// Package uow реализует паттерн Unit of Work поверх pgx: реестр фабрик репозиториев
// плюс выполнение произвольной функции внутри одной транзакции БД.
package uow

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

// DBTX общий знаменатель *pgxpool.Pool и pgx.Tx. Повторяем интерфейс, чтобы не тянуть
// сюда типы конкретных репозиториев.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// DB соединение, умеющее открывать транзакции. *pgxpool.Pool удовлетворяет.
type DB interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TX доступ к репозиториям, привязанным к открытой транзакции.
type TX interface {
	Get(name RepositoryName) (Repository, error)
}

type UOW interface {
	Register(name RepositoryName, factory RepositoryFactory) error
	Do(ctx context.Context, fn func(ctx context.Context, tx TX) error) error
	GetRepository(name RepositoryName) (Repository, error)
}
