// Package app wires configuration into a ready prediction service.
package app

import (
	"context"
	"io"
	"log"

	"redshift-backend/internal/artifact"
	"redshift-backend/internal/config"
	"redshift-backend/internal/model"
	"redshift-backend/internal/predict"
)

// App owns the artifact caches and the service built on them.
type App struct {
	Config    *config.Config
	Predictor *predict.Service
	Scalers   *artifact.Loader[model.Scaler]
	Models    *artifact.Loader[model.Regressor]

	closer io.Closer
}

// New opens the configured artifact store and builds the service. Artifacts
// are not read until Preload or the first prediction.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	fs, err := cfg.FeatureSchema()
	if err != nil {
		return nil, err
	}

	var (
		store  artifact.Store
		closer io.Closer
	)
	switch cfg.Artifacts.Backend {
	case "postgres", "mysql":
		sqlStore, err := artifact.OpenSQLStore(ctx, cfg.Artifacts.Database)
		if err != nil {
			return nil, err
		}
		log.Printf("[Artifacts] Using %s store %s:%d/%s", cfg.Artifacts.Backend,
			cfg.Artifacts.Database.Host, cfg.Artifacts.Database.Port, cfg.Artifacts.Database.DBName)
		store, closer = sqlStore, sqlStore
	default:
		log.Printf("[Artifacts] Using directory %s", cfg.Artifacts.Dir)
		store = artifact.NewFileStore(cfg.Artifacts.Dir)
	}

	a := &App{
		Config:  cfg,
		Scalers: artifact.NewLoader(store, model.DecodeScaler),
		Models:  artifact.NewLoader(store, model.DecodeRegressor),
		closer:  closer,
	}
	a.Predictor = predict.NewService(fs, a.Scalers, a.Models, cfg.Artifacts.ScalerName, cfg.Artifacts.ModelName)
	return a, nil
}

// ArtifactStatus reports whether each configured artifact is cached.
func (a *App) ArtifactStatus() map[string]bool {
	return map[string]bool{
		a.Config.Artifacts.ScalerName: a.Scalers.Loaded(a.Config.Artifacts.ScalerName),
		a.Config.Artifacts.ModelName:  a.Models.Loaded(a.Config.Artifacts.ModelName),
	}
}

func (a *App) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
