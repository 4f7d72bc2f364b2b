package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/providers/instant"
	"github.com/sandevgo/musage/internal/providers/rag"
	"github.com/sandevgo/musage/internal/providers/search"
	"github.com/sandevgo/musage/internal/service/command"
	"github.com/sandevgo/musage/internal/service/dialogue"
	"github.com/sandevgo/musage/internal/service/learning"
	"github.com/sandevgo/musage/internal/service/memory"
	"github.com/sandevgo/musage/internal/service/synth"
	"github.com/sandevgo/musage/internal/storage/sqlite"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/srv"
)

// App is everything the transports need, plus the background services it
// owns.
type App struct {
	Config   *config.AppConfig
	Dialogue core.Dialogue
	Router   core.CmdRouter
	Memory   *memory.Memory
	Services []srv.Service
}

func NewApp(ctx context.Context) *App {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	appCfg.Offline = appCfg.Offline || offline
	synthCfg := config.NewSynthConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)

	// 2. Storage
	db, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	turnsRepo := sqlite.NewTurnsRepo(db)
	knowledgeRepo := sqlite.NewKnowledgeRepo(db)
	learningRepo := sqlite.NewLearningRepo(db)

	// 3. Memory: conversation log, knowledge base and semantic cache
	tok, err := rag.DefaultTokenizer()
	if err != nil {
		logger.Warn().Err(err).Msg("BPE ranks unavailable, chunking on words")
	}
	embedder := rag.NewHashEmbedder(rag.DefaultDims)
	mem := memory.NewMemory(
		turnsRepo,
		knowledgeRepo,
		memory.NewCache(sqlite.NewVectorRepo(db), embedder),
		rag.NewChunker(rag.DefaultChunkerConfig(), tok),
		embedder.Engine(),
	)
	services = append(services, memory.NewPruner(turnsRepo, appCfg.PruneInterval, appCfg.HistoryLimit))

	// 4. Learning
	learner := learning.NewLearner(learningRepo, knowledgeRepo)

	// 5. Answer providers
	providers := instant.Available(ctx,
		instant.NewLocal(),
		instant.NewBuiltin(),
		learner,
		instant.NewSimpleQA(),
	)
	web := search.NewWeb(searchCfg, appCfg.Offline)

	// 6. Dialogue
	classifier, watcher, err := initClassifier(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load dialogue rules")
	}
	if watcher != nil {
		services = append(services, watcher)
	}

	orchestrator := dialogue.NewOrchestrator(
		dialogue.Config{
			ContextTurns: appCfg.ContextTurns,
			CacheResults: synthCfg.CacheResults,
			FetchLimit:   searchCfg.FetchLimit,
		},
		dialogue.Deps{
			Classifier: classifier,
			Synth: synth.New(synth.Config{
				MaxSources:      synthCfg.MaxSources,
				ChunkLimit:      synthCfg.ChunkLimit,
				AcceptThreshold: synthCfg.AcceptThreshold,
				SimilarityFloor: synthCfg.SimilarityFloor,
			}),
			Retriever: web,
			Cache:     mem,
			Knowledge: mem,
			History:   mem,
			Stats:     mem,
			Memory:    mem,
			States:    sqlite.NewStateRepo(db),
			Usage:     learner,
			Instant:   providers,
		},
	)

	// 7. Commands
	router := command.New(command.NewCommands(command.Deps{
		Stats:    mem,
		History:  mem,
		Learning: learner,
		Resetter: orchestrator,
	}))

	return &App{
		Config:   appCfg,
		Dialogue: orchestrator,
		Router:   router,
		Memory:   mem,
		Services: services,
	}
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

// initClassifier loads the rule document named by the config, falling back
// to the embedded rules, and watches it for edits.
func initClassifier(ctx context.Context, cfg *config.AppConfig) (*dialogue.Classifier, *dialogue.RulesWatcher, error) {
	if cfg.RulesPath == "" {
		return dialogue.NewClassifier(dialogue.DefaultRules()), nil, nil
	}

	rules, err := dialogue.LoadRulesFile(cfg.RulesPath)
	if err != nil {
		return nil, nil, err
	}
	classifier := dialogue.NewClassifier(rules)

	watcher, err := dialogue.NewRulesWatcher(cfg.RulesPath, classifier)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("rules hot reload disabled")
		return classifier, nil, nil
	}
	return classifier, watcher, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
