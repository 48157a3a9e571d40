// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MemoryDatabase is the SQLite database name that keeps everything in memory.
const MemoryDatabase = ":memory:"

// Config holds configuration knobs for the HTTP and gRPC servers and their backends.
type Config struct {
	HTTPAddr           string
	GRPCAddr           string
	ShutdownTimeout    time.Duration
	LogLevel           string
	RateLimitPerMinute int
	Database           Database
	Redis              Redis
}

// Database describes how to reach the relational store.
type Database struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Redis describes the optional Redis backend. An empty Addr disables it.
type Redis struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load reads an optional .env file and collects configuration from the environment with defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	driver := strings.ToLower(getenv("DB_DRIVER", DriverMySQL))
	cfg := Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:           getenv("GRPC_ADDR", ":50051"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 5),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		RateLimitPerMinute: atoienv("RATE_LIMIT_PER_MINUTE", 60),
		Database: Database{
			Driver:          driver,
			Host:            getenv("DB_HOST", "localhost"),
			Port:            getenv("DB_PORT", defaultPort(driver)),
			User:            getenv("DB_USER", "root"),
			Password:        getenv("DB_PASSWORD", ""),
			Name:            getenv("DB_NAME", defaultName(driver)),
			SSLMode:         getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:    atoienv("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    atoienv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: durenvs("DB_CONN_MAX_LIFETIME", 300),
		},
		Redis: Redis{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       atoienv("REDIS_DB", 0),
			PoolSize: atoienv("REDIS_POOL_SIZE", 100),
		},
	}
	if _, err := cfg.Database.DSN(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func defaultName(driver string) string {
	if driver == DriverSQLite {
		return "inventario.db"
	}
	return "inventario"
}

// IsMemory reports whether the database lives only as long as its connection.
func (d Database) IsMemory() bool {
	return d.Driver == DriverSQLite && d.Name == MemoryDatabase
}

// DSN assembles the driver specific connection string.
func (d Database) DSN() (string, error) {
	switch d.Driver {
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = d.User
		c.Passwd = d.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(d.Host, d.Port)
		c.DBName = d.Name
		c.ParseTime = true
		c.Loc = time.UTC
		// Report matched rows so an update that changes nothing still counts.
		c.ClientFoundRows = true
		return c.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, d.Port),
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case DriverSQLite:
		name := d.Name
		if d.IsMemory() {
			name = "file::memory:"
		}
		sep := "?"
		if strings.Contains(name, "?") {
			sep = "&"
		}
		return name + sep + "_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}
