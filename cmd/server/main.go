package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mauroere/cafia/handlers"
	"github.com/mauroere/cafia/internal/auth"
	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/internal/categories"
	"github.com/mauroere/cafia/internal/consul"
	"github.com/mauroere/cafia/internal/orders"
	"github.com/mauroere/cafia/internal/products"
	"github.com/mauroere/cafia/internal/stats"
	"github.com/mauroere/cafia/internal/stores/kafka"
	"github.com/mauroere/cafia/internal/stores/postgres"
	"github.com/mauroere/cafia/internal/stores/rediscache"
	"github.com/mauroere/cafia/internal/users"
	"github.com/mauroere/cafia/pkg/logkey"
)

const serviceName = "cafia"

func main() {
	if err := startApp(); err != nil {
		slog.Error("startup failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	// .env is optional; in containers config comes straight from the
	// environment.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded configuration from .env")
	}

	authKeys, err := loadAuthKeys()
	if err != nil {
		return err
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("connected to postgres")

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	slog.Info("migrations applied")

	u, err := users.NewConf(db)
	if err != nil {
		return err
	}
	b, err := business.NewConf(db)
	if err != nil {
		return err
	}
	p, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cat, err := categories.NewConf(db)
	if err != nil {
		return err
	}
	o, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	statsStore, err := stats.NewStore(db)
	if err != nil {
		return err
	}
	st := stats.NewService(statsStore)

	// Kafka is optional; without brokers order events are simply not
	// published.
	var k *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		k, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			return err
		}
		defer k.Close()
		slog.Info("connected to kafka", slog.String("Brokers", brokers))
	}

	// Redis is optional; without it menus are served straight from the DB.
	var cache *rediscache.Conf
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		cache, err = rediscache.NewConf(rdb, 5*time.Minute)
		if err != nil {
			return err
		}
		slog.Info("connected to redis", slog.String("Addr", redisAddr))
	}

	port, err := strconv.Atoi(envOr("APP_PORT", "8080"))
	if err != nil {
		return err
	}

	if consulAddr := os.Getenv("CONSUL_ADDR"); consulAddr != "" {
		client, err := consul.NewClient(consulAddr)
		if err != nil {
			return err
		}
		host := envOr("APP_HOST", "localhost")
		if err := consul.RegisterService(client, serviceName, host, port); err != nil {
			return err
		}
		defer func() {
			if err := consul.DeregisterService(client, serviceName, host, port); err != nil {
				slog.Error("consul deregistration failed", slog.String(logkey.ERROR, err.Error()))
			}
		}()
		slog.Info("registered with consul", slog.String("Addr", consulAddr))
	}

	api := handlers.API(authKeys, u, b, p, cat, o, st, k, cache)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("Addr", srv.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("Signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return err
		}
	}
	return nil
}

// loadAuthKeys reads the RSA key pair used to sign and verify JWTs.
func loadAuthKeys() (*auth.Keys, error) {
	privatePEM, err := os.ReadFile(envOr("AUTH_PRIVATE_KEY_FILE", "private.pem"))
	if err != nil {
		return nil, err
	}
	publicPEM, err := os.ReadFile(envOr("AUTH_PUBLIC_KEY_FILE", "pubkey.pem"))
	if err != nil {
		return nil, err
	}
	return auth.NewKeys(privatePEM, publicPEM)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
