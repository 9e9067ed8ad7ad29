package config

import (
	"testing"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		requireBot bool
		wantErr    bool
	}{
		{
			name:    "postgres without data source",
			cfg:     Config{Database: DatabaseConf{Driver: DriverPostgres}},
			wantErr: true,
		},
		{
			name:       "memory without bot token in api-only mode",
			cfg:        Config{Database: DatabaseConf{Driver: DriverMemory}},
			requireBot: false,
		},
		{
			name:       "bot required but token missing",
			cfg:        Config{Database: DatabaseConf{Driver: DriverMemory}},
			requireBot: true,
			wantErr:    true,
		},
		{
			name:    "unknown timezone",
			cfg:     Config{Database: DatabaseConf{Driver: DriverMemory}, Timezone: "Not/AZone"},
			wantErr: true,
		},
		{
			name:    "missing static dir",
			cfg:     Config{Database: DatabaseConf{Driver: DriverMemory}, StaticDir: "/nonexistent/budget-static"},
			wantErr: true,
		},
		{
			name:    "named timezone",
			cfg:     Config{Database: DatabaseConf{Driver: DriverMemory}, Timezone: "UTC"},
			wantErr: false,
		},
		{
			name: "complete",
			cfg: Config{
				Bot:      BotConf{Token: "123:abc"},
				Database: DatabaseConf{Driver: DriverPostgres, DataSource: "postgres://localhost/budget"},
			},
			requireBot: true,
		},
	}

	for _, tt := range tests {
		err := tt.cfg.Validate(tt.requireBot)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestLocation(t *testing.T) {
	if got := (Config{}).Location(); got != time.Local {
		t.Fatalf("empty timezone = %v, want Local", got)
	}
	if got := (Config{Timezone: "Not/AZone"}).Location(); got != time.Local {
		t.Fatalf("bad timezone = %v, want Local", got)
	}
	if got := (Config{Timezone: "UTC"}).Location(); got.String() != "UTC" {
		t.Fatalf("UTC timezone = %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(`
Name: budget-api
Port: 5000
Database:
  Driver: memory
`), &c)
	if err != nil {
		t.Fatal(err)
	}

	if c.HasRedis() {
		t.Error("redis configured without a host")
	}
	if c.Bot.PollTimeout != 60 || c.Bot.HandlerTimeout != 10000 {
		t.Errorf("bot defaults = %+v", c.Bot)
	}
	if c.Idempotency.TTL != 86400 || c.Throttle.Period != 60 || c.Throttle.Quota != 20 {
		t.Errorf("idempotency = %+v, throttle = %+v", c.Idempotency, c.Throttle)
	}
	if c.Database.MaxConns != 10 || c.Timezone != "Local" {
		t.Errorf("database = %+v, timezone = %q", c.Database, c.Timezone)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(`
Name: budget-api
Port: 5000
Database:
  Driver: sqlite
`), &c)
	if err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}
