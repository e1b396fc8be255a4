package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Timesheet TimesheetConfig `yaml:"timesheet"`
	Redis     RedisConfig     `yaml:"redis"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"SERVER_LISTEN_ADDR"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"DATABASE_HOST"`
	Port               int           `yaml:"port" env:"DATABASE_PORT"`
	User               string        `yaml:"user" env:"DATABASE_USER"`
	Password           string        `yaml:"password" env:"DATABASE_PASSWORD"`
	Name               string        `yaml:"name" env:"DATABASE_NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"DATABASE_SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"DATABASE_CONN_MAX_IDLE_TIME"`
}

// TimesheetConfig は勤怠の暦に関する設定です。
type TimesheetConfig struct {
	Timezone     string `yaml:"timezone" env:"TIMESHEET_TIMEZONE"`
	WeekStart    string `yaml:"week_start" env:"TIMESHEET_WEEK_START"`
	RecentEvents int    `yaml:"recent_events" env:"TIMESHEET_RECENT_EVENTS"`
}

// Calendar は設定された暦を返します。Load で検証済みであることを前提とし、
// 解釈できない場合は UTC・月曜始まりになります。
func (t TimesheetConfig) Calendar() workcal.Calendar {
	calendar, err := workcal.NewCalendar(t.Timezone, t.WeekStart)
	if err != nil {
		return workcal.Calendar{Location: time.UTC, WeekStart: time.Monday}
	}
	return calendar
}

// RedisConfig は状態キャッシュの設定です。Addr が空ならキャッシュは無効です。
type RedisConfig struct {
	Addr         string        `yaml:"addr" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	StatusTTL    time.Duration `yaml:"-"`
	StatusTTLRaw string        `yaml:"status_ttl" env:"REDIS_STATUS_TTL"`
}

// Enabled はキャッシュが設定されているかを返します。
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// ReminderConfig は催促ワーカーの設定です。Interval が 0 なら無効です。
type ReminderConfig struct {
	Interval    time.Duration `yaml:"-"`
	IntervalRaw string        `yaml:"interval" env:"REMINDER_INTERVAL"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Timesheet.validateAndNormalize(); err != nil {
		return err
	}

	ttl, err := parseDurationAllowEmpty(c.Redis.StatusTTLRaw)
	if err != nil {
		return fmt.Errorf("config: redis.status_ttl: %w", err)
	}
	c.Redis.StatusTTL = ttl

	interval, err := parseDurationAllowEmpty(c.Reminder.IntervalRaw)
	if err != nil {
		return fmt.Errorf("config: reminder.interval: %w", err)
	}
	if interval < 0 {
		return fmt.Errorf("config: reminder.interval must not be negative")
	}
	c.Reminder.Interval = interval

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (t *TimesheetConfig) validateAndNormalize() error {
	if strings.TrimSpace(t.Timezone) == "" {
		t.Timezone = "UTC"
	}
	if strings.TrimSpace(t.WeekStart) == "" {
		t.WeekStart = "Monday"
	}
	if t.RecentEvents < 0 {
		return fmt.Errorf("config: timesheet.recent_events must not be negative")
	}

	if _, err := workcal.NewCalendar(t.Timezone, t.WeekStart); err != nil {
		return fmt.Errorf("config: timesheet: %w", err)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
