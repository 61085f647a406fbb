package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/thisisniagahub/quran-agent/internal/config"
	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/repository"
	"github.com/thisisniagahub/quran-agent/internal/service"
	"github.com/thisisniagahub/quran-agent/internal/util"
	"github.com/thisisniagahub/quran-agent/pkg/configwatcher"
	"github.com/thisisniagahub/quran-agent/pkg/database"
	"github.com/thisisniagahub/quran-agent/pkg/logger"
	"github.com/thisisniagahub/quran-agent/pkg/monitoring"
	"github.com/thisisniagahub/quran-agent/pkg/tracing"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App owns the lifecycle of the learner store and wires the three
// learning-intelligence components together for batch analysis runs.
type App struct {
	Config     *config.Config
	Store      *repository.LearnerRepository
	Catalog    *service.ContentCatalog
	Recitation *service.RecitationService

	db       *gorm.DB
	validate *validator.Validate
}

func NewApp(cfg *config.Config) (*App, error) {
	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quran-agent", cfg.Tracing.CollectorEndpoint); err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
	}

	store := repository.NewLearnerRepository()

	catalog := service.NewContentCatalog()
	if cfg.Content.CatalogPath != "" {
		if err := catalog.LoadFile(cfg.Content.CatalogPath); err != nil {
			return nil, err
		}
		if cfg.Content.Watch {
			go configwatcher.Watch(cfg.Content.CatalogPath, catalog.LoadFile)
		}
	}

	app := &App{
		Config:  cfg,
		Store:   store,
		Catalog: catalog,
		Recitation: service.NewRecitationService(
			service.NewEvaluationService(),
			service.NewLessonPolicyService(store, catalog),
			store,
		),
		validate: validator.New(),
	}

	if cfg.Snapshot.Enabled {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init snapshot db: %w", err)
		}
		app.db = db
		store.SetSnapshotter(repository.NewSnapshotRepository(db))
		if err := store.Restore(context.Background()); err != nil {
			return nil, fmt.Errorf("restore learner profiles: %w", err)
		}
	}

	return app, nil
}

// Run processes each alignment file through one evaluation cycle and
// emits the analysis plus lesson recommendation as JSON on stdout.
func (a *App) Run(inputs []string) error {
	if a.Config.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", monitoring.Handler())
			if err := http.ListenAndServe(a.Config.Metrics.Addr, mux); err != nil {
				logger.Log.Error("Metrics listener stopped", zap.Error(err))
			}
		}()
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	ctx := context.Background()
	for _, path := range inputs {
		output, err := a.processFile(ctx, path)
		if err != nil {
			return fmt.Errorf("process %s: %w", path, err)
		}
		if err := encoder.Encode(output); err != nil {
			return err
		}
	}

	if a.Config.Snapshot.Enabled {
		if err := a.Store.Snapshot(ctx); err != nil {
			return fmt.Errorf("snapshot learner profiles: %w", err)
		}
	}

	return nil
}

func (a *App) processFile(ctx context.Context, path string) (*model.AnalysisOutput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var input model.AlignmentInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("decode alignment: %w", err)
	}
	if err := a.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("invalid alignment: %w", err)
	}
	if len(input.Expected) == 0 && len(input.Errors) == 0 {
		return nil, util.ErrEmptyAlignment
	}

	if _, ok := a.Store.GetProfile(input.LearnerID); !ok {
		a.Recitation.RegisterLearner(input.LearnerID, input.LearnerName)
	}
	if err := a.Recitation.StartSession(input.LearnerID); err != nil {
		return nil, err
	}

	var (
		result *model.EvaluationResult
		plan   *model.LessonPlan
	)
	if len(input.Errors) > 0 {
		result, plan, err = a.Recitation.ProcessClassified(ctx, input.LearnerID, input.Errors, input.TotalPhonemes)
	} else {
		result, plan, err = a.Recitation.ProcessRecitation(ctx, input.LearnerID, input.Actual, input.Expected)
	}
	if err != nil {
		return nil, err
	}

	return &model.AnalysisOutput{
		LearnerID: input.LearnerID,
		Analysis:  result,
		Lesson:    plan,
	}, nil
}
