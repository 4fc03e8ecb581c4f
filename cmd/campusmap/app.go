package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/assets"
	"campus-map/internal/campus/schedule"
	"campus-map/internal/common/config"
)

// deps: всё, что собирается из конфигурации до запуска команды.
type deps struct {
	db      *sql.DB
	rooms   *schedule.Repository
	catalog *areas.Catalog
	assets  *assets.Storage
}

func (d *deps) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// bootstrap открывает базу расписаний, заполняет её и читает каталог
// этажей. Ошибка в координатах областей останавливает запуск.
func bootstrap(ctx context.Context, cfg *config.Config) (*deps, error) {
	catalog, err := areas.LoadCatalog(cfg.FloorsFile)
	if err != nil {
		return nil, fmt.Errorf("load floors: %w", err)
	}
	if cfg.DefaultFloor != nil {
		if err := catalog.SetDefaultFloor(*cfg.DefaultFloor); err != nil {
			return nil, err
		}
	}

	db, err := schedule.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	repo := schedule.New(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if cfg.RoomsFile != "" {
		if _, err := schedule.Seed(ctx, repo, cfg.RoomsFile); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed rooms: %w", err)
		}
	}

	return &deps{
		db:      db,
		rooms:   repo,
		catalog: catalog,
		assets:  assets.NewFileStorage(cfg.AssetsDir),
	}, nil
}
