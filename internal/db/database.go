package db

import (
	"context"
	"errors"
	"fmt"

	"readmekit/internal/config"
	"readmekit/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Service is the persistence surface used by the counter store.
type Service interface {
	GetVisitorCount(ctx context.Context, name string) (int64, bool, error)
	IncrementVisitorCount(ctx context.Context, name string, seed int64) (int64, error)
	ListVisitorCounters(ctx context.Context) ([]model.VisitorCounter, error)
	Ping(ctx context.Context) error
	GetDB() *gorm.DB
}

type service struct {
	db *gorm.DB
}

// NewService opens the configured database and migrates the schema.
func NewService(cfg config.DatabaseConfig) (Service, error) {
	db, err := Init(cfg)
	if err != nil {
		return nil, err
	}
	return &service{db: db}, nil
}

// Init initializes the database connection based on the provided configuration.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Type == "sqlite" {
		// sqlite serializes writers anyway; one connection also keeps
		// ":memory:" databases from splitting across the pool.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.VisitorCounter{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Ping checks that the underlying connection is usable.
func (s *service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// GetVisitorCount returns the stored hits for name. The bool is false when no
// row exists yet.
func (s *service) GetVisitorCount(ctx context.Context, name string) (int64, bool, error) {
	var counter model.VisitorCounter
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load visitor counter %s: %w", name, err)
	}
	return counter.Hits, true, nil
}

// IncrementVisitorCount creates the row with seed when it is missing, then
// atomically adds one and returns the new value.
func (s *service) IncrementVisitorCount(ctx context.Context, name string, seed int64) (int64, error) {
	var hits int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.VisitorCounter{Name: name, Hits: seed}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}

		result := tx.Model(&model.VisitorCounter{}).Where("name = ?", name).UpdateColumn("hits", gorm.Expr("hits + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("visitor counter not found during increment: %s", name)
		}

		var counter model.VisitorCounter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}
		hits = counter.Hits
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment visitor counter %s: %w", name, err)
	}
	return hits, nil
}

// ListVisitorCounters returns every counter ordered by name.
func (s *service) ListVisitorCounters(ctx context.Context) ([]model.VisitorCounter, error) {
	var counters []model.VisitorCounter
	if err := s.db.WithContext(ctx).Order("name asc").Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("failed to list visitor counters: %w", err)
	}
	return counters, nil
}
