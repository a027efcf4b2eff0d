package embeddings

import (
	"context"
	"sync"

	"shopsight/internal/logging"
	"shopsight/internal/model"
	"shopsight/internal/observability"
)

const chunkSize = 1000

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorSink stores the embedded chunks of a product, replacing older ones.
type VectorSink interface {
	Replace(ctx context.Context, doc model.RawDocument, chunks []string, vectors [][]float32) error
}

// Marker flags a staged document as processed.
type Marker interface {
	MarkAsProcessed(ctx context.Context, productID int64) error
}

// Result counts the outcome of a RunWorkers pass.
type Result struct {
	Processed int
	Failed    int
}

// RunWorkers embeds docs with a pool of workers. A document is marked as
// processed only when every one of its chunks was embedded and stored.
func RunWorkers(
	ctx context.Context,
	docs []model.RawDocument,
	emb Embedder,
	sink VectorSink,
	marker Marker,
	workers int,
) Result {
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan model.RawDocument)
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		res Result
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				ok := process(ctx, d, emb, sink, marker)
				mu.Lock()
				if ok {
					res.Processed++
				} else {
					res.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, d := range docs {
		if ctx.Err() != nil {
			break
		}
		jobs <- d
	}
	close(jobs)
	wg.Wait()

	return res
}

func process(ctx context.Context, d model.RawDocument, emb Embedder, sink VectorSink, marker Marker) bool {
	logger := logging.Component("embeddings")

	chunks := Chunk(d.Content, chunkSize)
	vectors := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		v, err := emb.Embed(ctx, c)
		if err != nil {
			logger.Error().Err(err).Int64("product_id", d.ProductID).Msg("embedding failed")
			return false
		}
		observability.EmbeddingsTotal.Inc()
		vectors = append(vectors, v)
	}

	if err := sink.Replace(ctx, d, chunks, vectors); err != nil {
		logger.Error().Err(err).Int64("product_id", d.ProductID).Msg("failed to store vectors")
		return false
	}
	if err := marker.MarkAsProcessed(ctx, d.ProductID); err != nil {
		logger.Error().Err(err).Int64("product_id", d.ProductID).Msg("failed to mark as processed")
		return false
	}
	logger.Info().Int64("product_id", d.ProductID).Int("chunks", len(chunks)).Msg("product processed")
	return true
}
