package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukeperry/ssu-career-connect/internal/config"
	log "github.com/sirupsen/logrus"
)

var dbCtx *DbContext

func upEnvironment(dir string) {
	var err error
	dbCtx, err = NewDbContext(config.DriverSqlite, filepath.Join(dir, "testdatabase.db"))
	if err != nil {
		log.Fatalf("could not create db context: %s", err)
	}

	sqlDB, err := dbCtx.DB.DB()
	if err != nil {
		log.Fatalf("could not get sql db: %s", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = dbCtx.Migrate()
	if err != nil {
		log.Fatalf("could not migrate db: %s", err)
	}
}

func clearDb() {
	dbCtx.DB.Exec("DELETE FROM match_scores WHERE TRUE")
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "matcher-repositories")
	if err != nil {
		log.Fatal(err)
	}

	upEnvironment(dir)

	code := m.Run()

	_ = dbCtx.Close()
	_ = os.RemoveAll(dir)

	os.Exit(code)
}
