package usage

import (
	"interviewcore/internal/config"
)

// Open builds the configured usage store backend.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "postgres":
		return NewPostgres(cfg.DSN)
	default:
		return NewSQLite(cfg.DSN)
	}
}
