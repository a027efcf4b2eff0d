package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"shopsight/internal/catalog"
	"shopsight/internal/config"
	"shopsight/internal/db"
	"shopsight/internal/embeddings"
	"shopsight/internal/logging"
	"shopsight/internal/observability"
	"shopsight/internal/repository"
)

func main() {
	cfg := config.Load()

	stageOnly := flag.Bool("stage-only", false, "stage raw documents without embedding them")
	embedOnly := flag.Bool("embed-only", false, "embed already staged documents")
	flag.Parse()

	logging.Configure(cfg.LogLevel, cfg.LogFormat)
	observability.Start(cfg.MetricsPort)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}
	ctx := context.Background()

	sqlDB, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database (sql)")
	}
	defer sqlDB.Close()
	rawRepo := &repository.RawRepository{DB: sqlDB}

	if !*embedOnly {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load catalog")
		}
		staged := 0
		for _, p := range c.Products() {
			if err := rawRepo.Save(ctx, embeddings.RawDocument(p)); err != nil {
				log.Error().Err(err).Int64("product_id", p.ID).Msg("failed to stage product")
				continue
			}
			staged++
		}
		log.Info().Int("staged", staged).Int("products", c.Len()).Msg("raw documents staged")
	}
	if *stageOnly {
		return
	}

	if cfg.OpenAIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is not set")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database (pgxpool)")
	}
	defer pool.Close()
	vectorRepo := &repository.VectorRepository{DB: pool}

	pending, err := rawRepo.ListPending(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list pending documents")
	}
	log.Info().Int("pending", len(pending)).Int("workers", cfg.WorkerCount).Msg("embedding documents")

	emb := &embeddings.OpenAIEmbedder{
		Client: openai.NewClient(cfg.OpenAIKey),
		Model:  cfg.EmbeddingModel,
	}
	res := embeddings.RunWorkers(ctx, pending, emb, vectorRepo, rawRepo, cfg.WorkerCount)

	total, err := vectorRepo.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count stored products")
	}
	log.Info().Int("processed", res.Processed).Int("failed", res.Failed).Int("stored_products", total).Msg("embeddings finished")
}
