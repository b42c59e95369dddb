package mariadb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"games_hub/internal/config"
	"games_hub/internal/models"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// errDuplicateEntry is MySQL/MariaDB ER_DUP_ENTRY.
const errDuplicateEntry = 1062

type Storage struct {
	DB *gorm.DB
}

func New(cfg config.Database, log *slog.Logger) (*Storage, error) {
	const op = "storage.mariadb.New"

	gormLogger := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or alters the games and contact_messages tables.
func (s *Storage) Migrate() error {
	const op = "storage.mariadb.Migrate"

	if err := s.DB.AutoMigrate(&models.Game{}, &models.ContactMessage{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsDuplicate reports whether err is a unique key violation.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysqldrv.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
