package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	rest.RestConf

	Bot         BotConf
	Database    DatabaseConf
	Redis       redis.RedisConf `json:",optional"`
	Timezone    string          `json:",default=Local"`
	StaticDir   string          `json:",optional"`
	Idempotency IdempotencyConf
	Throttle    ThrottleConf
}

type BotConf struct {
	Token          string `json:",optional"`
	WebAppURL      string `json:",optional"`
	Debug          bool   `json:",optional"`
	PollTimeout    int    `json:",default=60"`
	HandlerTimeout int64  `json:",default=10000"` // milliseconds per update
}

type DatabaseConf struct {
	Driver     string `json:",default=postgres,options=postgres|memory"`
	DataSource string `json:",optional"`
	MaxConns   int32  `json:",default=10"`
}

// IdempotencyConf controls replay of add_expense responses; it needs Redis.
type IdempotencyConf struct {
	TTL int `json:",default=86400"` // seconds
}

// ThrottleConf limits bot commands per user; it needs Redis.
type ThrottleConf struct {
	Period int `json:",default=60"` // seconds
	Quota  int `json:",default=20"`
}

// Validate checks what must be present before serving any traffic.
func (c Config) Validate(requireBot bool) error {
	if c.Database.Driver == DriverPostgres && c.Database.DataSource == "" {
		return errors.New("Database.DataSource is required (set DATABASE_URL)")
	}
	if requireBot && c.Bot.Token == "" {
		return errors.New("Bot.Token is required (set TELEGRAM_BOT_TOKEN)")
	}
	if c.StaticDir != "" {
		if fi, err := os.Stat(c.StaticDir); err != nil || !fi.IsDir() {
			return fmt.Errorf("StaticDir %q is not a directory", c.StaticDir)
		}
	}
	if !c.localZone() {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("Timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// HasRedis reports whether a Redis node is configured.
func (c Config) HasRedis() bool {
	return c.Redis.Host != ""
}

// Location resolves Timezone. Validate rejects unknown zones; should one get
// here anyway it is logged and the local zone is used.
func (c Config) Location() *time.Location {
	if c.localZone() {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logx.Errorf("unknown Timezone %q, using the local zone: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c Config) localZone() bool {
	return c.Timezone == "" || c.Timezone == "Local"
}
