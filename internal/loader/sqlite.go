package loader

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"lightrag/internal/domain"
)

// DefaultQuery must return two text columns: a source label and the body.
const DefaultQuery = "SELECT source, text FROM documents"

// SQLite opens the database read-only and turns each row of query into a
// document. Rows with a NULL body are skipped.
func SQLite(ctx context.Context, path, query string) ([]domain.Document, error) {
	if query == "" {
		query = DefaultQuery
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var source, text sql.NullString
		if err := rows.Scan(&source, &text); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if !text.Valid {
			continue
		}
		docs = append(docs, domain.Document{Source: source.String, Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, path)
	}
	return docs, nil
}
