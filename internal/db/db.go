package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const connectTimeout = 10 * time.Second

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate creates the scheduling tables. On postgres it also adds the unique
// index that rejects a second active appointment on the exact same window.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Client{},
		&models.Service{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	return db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointments_active_slot
        ON appointments (date, start_time, end_time)
        WHERE status NOT IN ('cancelled', 'no-show')
    `).Error
}

// NewMongo connects and pings, for STORE_DRIVER=mongo.
func NewMongo(cfg *config.Config, log *zap.Logger) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to mongo database", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping mongo database", zap.Error(err))
	}

	log.Info("connected to mongo database", zap.String("database", cfg.MongoDatabase))
	return client
}

// NewRedis returns nil when no REDIS_ADDR is configured.
func NewRedis(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	if !cfg.UseRedisLock() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return client, nil
}
