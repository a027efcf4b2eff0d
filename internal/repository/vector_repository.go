package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsight/internal/model"
)

// VectorRepository stores embedded chunks in product_knowledge (pgvector).
type VectorRepository struct {
	DB *pgxpool.Pool
}

// Replace swaps every stored chunk of the document's product for the given
// ones in a single transaction, so re-running ingestion never duplicates rows.
func (r *VectorRepository) Replace(ctx context.Context, d model.RawDocument, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("product %d: %d chunks but %d vectors", d.ProductID, len(chunks), len(vectors))
	}

	return pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_knowledge WHERE product_id = $1`, d.ProductID); err != nil {
			return fmt.Errorf("delete vectors of %d: %w", d.ProductID, err)
		}

		batch := &pgx.Batch{}
		for i, chunk := range chunks {
			// pgvector rejects invalid UTF-8
			batch.Queue(`
				INSERT INTO product_knowledge
				(id, product_id, chunk_index, category, brand, price, content, embedding)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, uuid.New(), d.ProductID, i, d.Category, d.Brand, d.Price,
				strings.ToValidUTF8(chunk, ""), vectorLiteral(vectors[i]))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert vectors of %d: %w", d.ProductID, err)
		}
		return nil
	})
}

// Count returns the number of distinct products with stored vectors.
func (r *VectorRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(DISTINCT product_id) FROM product_knowledge`).Scan(&n)
	return n, err
}

// vectorLiteral renders v as "[v1,v2,...]", the pgvector text form.
func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
