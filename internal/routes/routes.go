package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/andino-pay/andino_pay/internal/config"
	"github.com/andino-pay/andino_pay/internal/deposit"
	"github.com/andino-pay/andino_pay/internal/ledger"
	"github.com/andino-pay/andino_pay/internal/matching"
	"github.com/andino-pay/andino_pay/internal/middleware"
	"github.com/andino-pay/andino_pay/internal/notification"
	"github.com/andino-pay/andino_pay/internal/reconciler"
	"github.com/andino-pay/andino_pay/internal/settlement"
	"github.com/andino-pay/andino_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev both stores are mandatory: the settlement guarantees
	// depend on a shared database, not in-process state.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Repositories. In-memory fallbacks exist for dev without a database;
	// they do not provide cross-process guarantees.
	var (
		depositRepo deposit.Repository
		walletRepo  wallet.Repository
		ledgerRepo  ledger.Repository
		notifLog    notification.Log
		engine      settlement.Engine
	)
	if d.DB != nil {
		depositRepo = deposit.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		ledgerRepo = ledger.NewPostgresRepository(d.DB)
		notifLog = notification.NewPostgresLog(d.DB)
		engine = settlement.NewPostgresEngine(d.DB, d.Cfg.LedgerWindow, d.Cfg.SettleTimeout)
	} else {
		deposits := deposit.NewMemoryRepository()
		wallets := wallet.NewMemoryRepository()
		entries := ledger.NewMemoryRepository()
		depositRepo = deposits
		walletRepo = wallets
		ledgerRepo = entries
		notifLog = notification.NewMemoryLog()
		engine = settlement.NewMemoryEngine(deposits, wallets, entries)
	}

	matcher := matching.NewMatcher(depositRepo, d.Cfg.MatchWindow)
	reconcilerSvc := reconciler.NewService(matcher, engine, d.Logger)
	depositSvc := deposit.NewService(depositRepo, walletRepo, ledgerRepo)

	reconcilerHandler := reconciler.NewHandler(notifLog, reconcilerSvc)
	depositHandler := deposit.NewHandler(depositSvc)
	walletHandler := wallet.NewHandler(walletRepo)
	ledgerHandler := ledger.NewHandler(ledgerRepo)

	api := app.Group("/api/v1")

	RegisterNotificationRoutes(api, reconcilerHandler, d)
	RegisterDepositRoutes(api, depositHandler)
	RegisterWalletRoutes(api, walletHandler)
	RegisterTransactionRoutes(api, ledgerHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
