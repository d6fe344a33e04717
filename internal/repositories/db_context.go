package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/lukeperry/ssu-career-connect/internal/config"
	"github.com/lukeperry/ssu-career-connect/internal/entities"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(driver string, connectionString string) (*DbContext, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(connectionString)
	case config.DriverSqlite, "":
		dialector = sqlite.Open(connectionString)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.MatchScore{})
	if err != nil {
		return fmt.Errorf("failed to migrate MatchScore entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_match_scores_talent_score ON match_scores (talent_id, score DESC)").
		Error; err != nil {
		return fmt.Errorf("failed to create talent score index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
