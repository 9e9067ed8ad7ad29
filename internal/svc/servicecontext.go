package svc

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"github.com/qx/budget_robot/internal/config"
	"github.com/qx/budget_robot/internal/store"
)

type ServiceContext struct {
	Config config.Config
	Store  store.Store
	Redis  *redis.Redis     // nil when not configured
	Bot    *tgbotapi.BotAPI // nil in api-only mode
	Now    func() time.Time

	pool *pgxpool.Pool
}

// NewServiceContext wires the store, redis and the bot client. It panics when
// a configured dependency cannot be reached, so nothing is served half-wired.
func NewServiceContext(c config.Config, withBot bool) *ServiceContext {
	loc := c.Location()
	svcCtx := &ServiceContext{
		Config: c,
		Now:    func() time.Time { return time.Now().In(loc) },
	}

	switch c.Database.Driver {
	case config.DriverMemory:
		logx.Info("using in-memory store, data is lost on exit")
		svcCtx.Store = store.NewMemory()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svcCtx.pool = MustConnect(ctx, c.Database)
		svcCtx.Store = store.NewPostgres(svcCtx.pool)
	}

	if c.HasRedis() {
		svcCtx.Redis = redis.MustNewRedis(c.Redis)
	}

	if withBot {
		bot, err := tgbotapi.NewBotAPI(c.Bot.Token)
		if err != nil {
			panic(err)
		}
		bot.Debug = c.Bot.Debug
		svcCtx.Bot = bot
	}

	return svcCtx
}

// MustConnect opens the PostgreSQL pool or panics.
func MustConnect(ctx context.Context, c config.DatabaseConf) *pgxpool.Pool {
	pool, err := store.Connect(ctx, c.DataSource, c.MaxConns)
	if err != nil {
		panic(err)
	}
	return pool
}

// Pool returns the PostgreSQL pool, or nil for the memory driver.
func (s *ServiceContext) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *ServiceContext) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
