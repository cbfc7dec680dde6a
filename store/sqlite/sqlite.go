/*
Package sqlite provides the SQLite-backed company registry.

PURPOSE:
  Persists company profiles and their yearly headcount series, and serves
  the lookup patterns the analysis API needs: exact registration-number
  lookup, fuzzy name search with pagination, registry-wide aggregates,
  and region distribution.

KEY TABLES:
  companies:  One row per registry record. Registration numbers are NOT
              unique here; the public registry contains duplicates, and
              the resolver surfaces the duplicate count instead of hiding
              them.
  headcounts: (company_id, year, employee_count), one row per observed
              year. Years never observed simply have no row.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the company registry on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		reg_no TEXT NOT NULL,
		name TEXT NOT NULL,
		province TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		industry_code TEXT NOT NULL DEFAULT '',
		industry_name TEXT NOT NULL DEFAULT '',
		established_at TEXT,
		excluded BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- reg_no is deliberately NOT unique: the upstream registry ships
	-- duplicate filings and the analysis layer wants to see them.
	CREATE INDEX IF NOT EXISTS idx_companies_reg_no
		ON companies(reg_no);
	CREATE INDEX IF NOT EXISTS idx_companies_name
		ON companies(name);
	CREATE INDEX IF NOT EXISTS idx_companies_province
		ON companies(province);

	CREATE TABLE IF NOT EXISTS headcounts (
		company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		employee_count INTEGER NOT NULL,
		PRIMARY KEY (company_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_headcounts_year
		ON headcounts(year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COMPANY RECORDS
// =============================================================================

// CompanyRecord is one registry row plus its observed headcount series.
type CompanyRecord struct {
	ID            string
	RegNo         string
	Name          string
	Province      string
	District      string
	IndustryCode  string
	IndustryName  string
	EstablishedAt time.Time
	Excluded      bool
	Headcounts    map[int]int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaveCompany upserts a company and replaces its headcount series.
// A missing ID gets a fresh UUID; the assigned record is returned.
func (s *Store) SaveCompany(ctx context.Context, c CompanyRecord) (CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	var establishedAt any
	if !c.EstablishedAt.IsZero() {
		establishedAt = c.EstablishedAt.Format("2006-01-02")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO companies
		(id, reg_no, name, province, district, industry_code, industry_name,
		 established_at, excluded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			reg_no = excluded.reg_no,
			name = excluded.name,
			province = excluded.province,
			district = excluded.district,
			industry_code = excluded.industry_code,
			industry_name = excluded.industry_name,
			established_at = excluded.established_at,
			excluded = excluded.excluded,
			updated_at = excluded.updated_at
	`, c.ID, c.RegNo, c.Name, c.Province, c.District, c.IndustryCode, c.IndustryName,
		establishedAt, c.Excluded, now, now)
	if err != nil {
		return c, fmt.Errorf("failed to save company: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM headcounts WHERE company_id = ?", c.ID); err != nil {
		return c, fmt.Errorf("failed to clear headcounts: %w", err)
	}
	for year, count := range c.Headcounts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO headcounts (company_id, year, employee_count) VALUES (?, ?, ?)",
			c.ID, year, count); err != nil {
			return c, fmt.Errorf("failed to save headcount %d: %w", year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return c, fmt.Errorf("failed to commit: %w", err)
	}
	return c, nil
}

// GetCompany retrieves a company by ID. Returns nil when not found.
func (s *Store) GetCompany(ctx context.Context, id string) (*CompanyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getCompany(ctx, "WHERE id = ?", id)
}

// GetByRegNo resolves a registration number to its primary record and
// reports how many duplicate rows share the number. When duplicates
// exist the oldest row wins.
func (s *Store) GetByRegNo(ctx context.Context, regNo string) (*CompanyRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var duplicates int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM companies WHERE reg_no = ?", regNo,
	).Scan(&duplicates); err != nil {
		return nil, 0, fmt.Errorf("failed to count duplicates: %w", err)
	}
	if duplicates == 0 {
		return nil, 0, nil
	}

	rec, err := s.getCompany(ctx, "WHERE reg_no = ? ORDER BY created_at ASC, id ASC LIMIT 1", regNo)
	return rec, duplicates, err
}

func (s *Store) getCompany(ctx context.Context, where string, args ...any) (*CompanyRecord, error) {
	query := `
		SELECT id, reg_no, name, province, district, industry_code, industry_name,
		       established_at, excluded, created_at, updated_at
		FROM companies ` + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query company: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanCompany(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadHeadcounts(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanCompany(rows *sql.Rows) (CompanyRecord, error) {
	var (
		rec           CompanyRecord
		establishedAt sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := rows.Scan(&rec.ID, &rec.RegNo, &rec.Name, &rec.Province, &rec.District,
		&rec.IndustryCode, &rec.IndustryName, &establishedAt, &rec.Excluded,
		&createdAt, &updatedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to scan company: %w", err)
	}
	if establishedAt.Valid {
		rec.EstablishedAt, _ = time.Parse("2006-01-02", establishedAt.String)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

func (s *Store) loadHeadcounts(ctx context.Context, rec *CompanyRecord) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT year, employee_count FROM headcounts WHERE company_id = ? ORDER BY year ASC",
		rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load headcounts: %w", err)
	}
	defer rows.Close()

	rec.Headcounts = make(map[int]int)
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return fmt.Errorf("failed to scan headcount: %w", err)
		}
		rec.Headcounts[year] = count
	}
	return rows.Err()
}

// DeleteCompany removes a company and its headcounts.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM headcounts WHERE company_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete headcounts: %w", err)
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	return err
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchQuery selects companies. A RegNo is an exact match and trumps
// Name; a Name searches by containment. Page is 1-based.
type SearchQuery struct {
	RegNo    string
	Name     string
	Province string
	Page     int
	PageSize int
}

const defaultPageSize = 20

// Search returns one page of matches plus the total match count.
func (s *Store) Search(ctx context.Context, q SearchQuery) ([]CompanyRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conds []string
	var args []any
	switch {
	case q.RegNo != "":
		conds = append(conds, "reg_no = ?")
		args = append(args, q.RegNo)
	case q.Name != "":
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+q.Name+"%")
	}
	if q.Province != "" {
		conds = append(conds, "province = ?")
		args = append(args, q.Province)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM companies "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matches: %w", err)
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT id, reg_no, name, province, district, industry_code, industry_name,
		       established_at, excluded, created_at, updated_at
		FROM companies %s
		ORDER BY name ASC, id ASC
		LIMIT ? OFFSET ?`, where)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()

	var out []CompanyRecord
	for rows.Next() {
		rec, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		if err := s.loadHeadcounts(ctx, &out[i]); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// Samples returns up to limit companies for demo listings.
func (s *Store) Samples(ctx context.Context, limit int) ([]CompanyRecord, error) {
	out, _, err := s.Search(ctx, SearchQuery{Page: 1, PageSize: limit})
	return out, err
}

// =============================================================================
// AGGREGATES
// =============================================================================

// Aggregates summarizes headcounts for one year across the registry.
type Aggregates struct {
	Year         int
	Companies    int
	MaxHeadcount int
	MinHeadcount int
	AvgHeadcount float64
}

// AggregatesForYear computes registry-wide headcount statistics. Pass
// year 0 for the latest year with any data.
func (s *Store) AggregatesForYear(ctx context.Context, year int) (Aggregates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if year == 0 {
		if err := s.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(year), 0) FROM headcounts",
		).Scan(&year); err != nil {
			return Aggregates{}, fmt.Errorf("failed to find latest year: %w", err)
		}
	}

	agg := Aggregates{Year: year}
	if year == 0 {
		return agg, nil
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(MAX(employee_count), 0),
		       COALESCE(MIN(employee_count), 0), COALESCE(AVG(employee_count), 0)
		FROM headcounts WHERE year = ?`, year,
	).Scan(&agg.Companies, &agg.MaxHeadcount, &agg.MinHeadcount, &agg.AvgHeadcount)
	if err != nil {
		return Aggregates{}, fmt.Errorf("failed to aggregate year %d: %w", year, err)
	}
	return agg, nil
}

// RegionDistribution counts companies per province.
func (s *Store) RegionDistribution(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT province, COUNT(*) FROM companies GROUP BY province ORDER BY province")
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var province string
		var count int
		if err := rows.Scan(&province, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		dist[province] = count
	}
	return dist, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"headcounts", "companies"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
