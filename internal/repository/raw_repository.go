package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shopsight/internal/model"
)

const (
	statusPending   = "S"
	statusProcessed = "N"
)

// RawRepository stages product documents in product_raw_knowledge.
type RawRepository struct {
	DB *sql.DB
}

// Save upserts the staged document of a product and flags it as pending.
func (r *RawRepository) Save(ctx context.Context, d model.RawDocument) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO product_raw_knowledge
		(id, product_id, category, brand, price, raw_content, sync_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id) DO UPDATE
		SET category = EXCLUDED.category,
		    brand = EXCLUDED.brand,
		    price = EXCLUDED.price,
		    raw_content = EXCLUDED.raw_content,
		    sync_status = EXCLUDED.sync_status
	`, d.ID, d.ProductID, d.Category, d.Brand, d.Price, d.Content, statusPending)
	if err != nil {
		return fmt.Errorf("save raw document %d: %w", d.ProductID, err)
	}
	return nil
}

// ListPending returns the staged documents not yet embedded.
func (r *RawRepository) ListPending(ctx context.Context) ([]model.RawDocument, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, product_id, category, brand, price, raw_content
		FROM product_raw_knowledge
		WHERE sync_status = $1
		ORDER BY product_id
	`, statusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending documents: %w", err)
	}
	defer rows.Close()

	var list []model.RawDocument
	for rows.Next() {
		var d model.RawDocument
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Category, &d.Brand, &d.Price, &d.Content); err != nil {
			return nil, fmt.Errorf("scan raw document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *RawRepository) MarkAsProcessed(ctx context.Context, productID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE product_raw_knowledge
		SET sync_status = $1
		WHERE product_id = $2
	`, statusProcessed, productID)
	return err
}
