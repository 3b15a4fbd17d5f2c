package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/smmpanel/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup         = "/api/v2"
	RegisterRoute      = "/user/register"
	LoginRoute         = "/user/login"
	ProfileRoute       = "/user/profile"
	PasswordRoute      = "/user/password"
	ServicesRoute      = "/services"
	OrdersRoute        = "/orders"
	OrderRoute         = "/orders/:id"
	BalanceRoute       = "/balance"
	TransactionsRoute  = "/balance/transactions"
	AdminUsersRoute    = "/admin/users"
	AdminAdjustRoute   = "/admin/users/:id/balance"
	AdminOrdersRoute   = "/admin/orders"
	AdminStatsRoute    = "/admin/orders/stats"
	AdminResubmitRoute = "/admin/orders/resubmit"
	AdminSyncStatus    = "/admin/sync/statuses"
	AdminSyncCatalog   = "/admin/sync/catalog"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	OrderService   OrderServicer
	BalanceService BalanceServicer
	CatalogService CatalogServicer
	ProviderSync   ProviderSyncer
	JWTSecretKey   []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	balanceHandler := NewBalanceHandler(args.BalanceService)
	servicesHandler := NewServicesHandler(args.CatalogService)
	adminHandler := NewAdminHandler(args.UserService, args.OrderService, args.ProviderSync)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, authHandler.Profile)
	api.POST(PasswordRoute, authHandler.ChangePassword)

	api.GET(ServicesRoute, servicesHandler.Index)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.DELETE(OrderRoute, ordersHandler.Cancel)

	api.GET(BalanceRoute, balanceHandler.Index)
	api.GET(TransactionsRoute, balanceHandler.Transactions)

	admin := api.Group("", middlewares.AdminRequired())
	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.POST(AdminAdjustRoute, adminHandler.AdjustBalance)
	admin.GET(AdminOrdersRoute, adminHandler.Orders)
	admin.GET(AdminStatsRoute, adminHandler.Stats)
	admin.POST(AdminResubmitRoute, adminHandler.ResubmitPending)
	admin.POST(AdminSyncStatus, adminHandler.SyncStatuses)
	admin.POST(AdminSyncCatalog, adminHandler.SyncCatalog)

	return r
}
