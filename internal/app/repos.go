package app

import (
	"fmt"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/db"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

func openDatabase(cfg config.DatabaseConfig, log *logger.Logger) (*db.Service, error) {
	log.Info("Connecting to database...", "driver", cfg.Driver)
	dbs, err := db.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	return dbs, nil
}

func wireRepos(dbs *db.Service, log *logger.Logger) repos.Repos {
	log.Info("Wiring repos...")
	return repos.New(dbs.DB(), log)
}
