package store

import (
	"context"
	"database/sql"
	"time"

	"carhunt-engine/internal/domain"
)

// Search is one persisted search run.
type Search struct {
	ID              int64  `json:"id"`
	Model           string `json:"model"`
	State           string `json:"state"`
	City            string `json:"city"`
	TargetPrice     int    `json:"targetPrice"`
	TargetMargin    int    `json:"targetMargin"`
	PriceTolerance  int    `json:"priceTolerance"`
	MarginTolerance int    `json:"marginTolerance"`
	ResultCount     int    `json:"resultCount"`
	CreatedAt       string `json:"createdAt"`
}

// AdRow is one persisted ranked ad. Nullable columns mirror the optional
// fields of a RankedAd.
type AdRow struct {
	ID             int64  `json:"id"`
	SearchID       int64  `json:"searchId"`
	Rank           int    `json:"rank"`
	Title          string `json:"title"`
	PriceText      string `json:"priceText"`
	Price          *int   `json:"price"`
	ReferencePrice *int   `json:"referencePrice"`
	Margin         *int   `json:"margin"`
	PriceDistance  int    `json:"priceDistance"`
	MarginDistance int    `json:"marginDistance"`
	Location       string `json:"location"`
	URL            string `json:"url"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS searches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  model TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  target_price INTEGER NOT NULL,
  target_margin INTEGER NOT NULL,
  price_tolerance INTEGER NOT NULL,
  margin_tolerance INTEGER NOT NULL,
  result_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS ranked_ads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  search_id INTEGER NOT NULL REFERENCES searches(id),
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  price_text TEXT NOT NULL DEFAULT '',
  price INTEGER,
  reference_price INTEGER,
  margin INTEGER,
  price_distance INTEGER NOT NULL,
  margin_distance INTEGER NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_ranked_ads_search
ON ranked_ads(search_id, position);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_ranked_ads_search_url
ON ranked_ads(search_id, url);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertSearch persists a run and its ranked ads in one transaction,
// returning the new search id.
func InsertSearch(ctx context.Context, db *sql.DB, s Search, ads []domain.RankedAd) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO searches(model, state, city, target_price, target_margin, price_tolerance, margin_tolerance, result_count, created_at)
VALUES(?,?,?,?,?,?,?,?,?);`,
		s.Model, s.State, s.City, s.TargetPrice, s.TargetMargin,
		s.PriceTolerance, s.MarginTolerance, len(ads), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO ranked_ads(search_id, position, title, price_text, price, reference_price, margin, price_distance, margin_distance, location, url)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, ad := range ads {
		if _, err := stmt.ExecContext(ctx, id, i+1, ad.Title, ad.PriceText,
			nullable(ad.Price), nullable(ad.ReferencePrice), nullable(ad.Margin),
			ad.PriceDistance, ad.MarginDistance, ad.Location, ad.URL); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

func ListSearches(ctx context.Context, db *sql.DB, limit int) ([]Search, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, model, state, city, target_price, target_margin, price_tolerance, margin_tolerance, result_count, created_at
FROM searches
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var s Search
		if err := rows.Scan(&s.ID, &s.Model, &s.State, &s.City, &s.TargetPrice, &s.TargetMargin,
			&s.PriceTolerance, &s.MarginTolerance, &s.ResultCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func GetSearch(ctx context.Context, db *sql.DB, id int64) (Search, error) {
	var s Search
	err := db.QueryRowContext(ctx, `
SELECT id, model, state, city, target_price, target_margin, price_tolerance, margin_tolerance, result_count, created_at
FROM searches WHERE id = ?;`, id).Scan(
		&s.ID, &s.Model, &s.State, &s.City, &s.TargetPrice, &s.TargetMargin,
		&s.PriceTolerance, &s.MarginTolerance, &s.ResultCount, &s.CreatedAt)
	return s, err
}

func ListAds(ctx context.Context, db *sql.DB, searchID int64) ([]AdRow, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, search_id, position, title, price_text, price, reference_price, margin, price_distance, margin_distance, location, url
FROM ranked_ads
WHERE search_id = ?
ORDER BY position;`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdRow
	for rows.Next() {
		var a AdRow
		var price, ref, margin sql.NullInt64
		if err := rows.Scan(&a.ID, &a.SearchID, &a.Rank, &a.Title, &a.PriceText,
			&price, &ref, &margin, &a.PriceDistance, &a.MarginDistance, &a.Location, &a.URL); err != nil {
			return nil, err
		}
		a.Price = fromNull(price)
		a.ReferencePrice = fromNull(ref)
		a.Margin = fromNull(margin)
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullable(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
