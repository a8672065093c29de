package initializers

import (
	"approval-flow-backend/config"
	"approval-flow-backend/db"
)

func InitDBConnection(cfg *config.Configuration) {
	err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
		cfg.Database.User, cfg.Database.Password, *cfg.Database.DebugMode, *cfg.Database.MigrateOnStart)
	if err != nil {
		panic(err.Error())
	}
}
