package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/ports"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	articlesTable = "articles"

	defaultListLimit = 50
	maxListLimit     = 100
)

var articleColumns = []string{
	"id",
	"title",
	"slug",
	"published_date",
	"author",
	"content_html",
	"content_text",
	"version_type",
	"parent_article_id",
	"refs",
	"source_url",
	"created_at",
	"updated_at",
}

// SQLRepository stores articles in Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
	now     func() time.Time
	newID   func() string
}

var _ ports.ArticleStore = (*SQLRepository)(nil)

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// NewSQLRepository wires db; driver selects the placeholder format.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &SQLRepository{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:   uuid.NewString,
	}
}

// Migrate creates the articles table and its indexes when missing.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	timestamp := "TIMESTAMP"
	if r.driver == DriverPostgres {
		timestamp = "TIMESTAMPTZ"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS articles (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			slug              TEXT NOT NULL UNIQUE,
			published_date    %[1]s NOT NULL,
			author            TEXT NOT NULL,
			content_html      TEXT NOT NULL,
			content_text      TEXT NOT NULL,
			version_type      TEXT NOT NULL,
			parent_article_id TEXT,
			refs              TEXT NOT NULL DEFAULT '[]',
			source_url        TEXT NOT NULL UNIQUE,
			created_at        %[1]s NOT NULL,
			updated_at        %[1]s NOT NULL
		)`, timestamp),
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_parent ON articles (parent_article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_version_created ON articles (version_type, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Get loads one article by id.
func (r *SQLRepository) Get(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := r.builder.Select(articleColumns...).From(articlesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build get: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return article, nil
}

// FindByParent returns the enhanced article derived from parentID, or nil.
func (r *SQLRepository) FindByParent(ctx context.Context, parentID string) (*domain.Article, error) {
	query, args, err := r.builder.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"parent_article_id": parentID, "version_type": string(domain.VersionEnhanced)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find by parent: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by parent %s: %w", parentID, err)
	}
	return &article, nil
}

// Create assigns an id and timestamps and inserts the article. Duplicate slugs,
// source URLs or enhanced versions yield domain.ErrConflict.
func (r *SQLRepository) Create(ctx context.Context, article domain.Article) (domain.Article, error) {
	if err := validateNew(article); err != nil {
		return domain.Article{}, err
	}

	now := r.now()
	article.ID = r.newID()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.PublishedDate.IsZero() {
		article.PublishedDate = now
	}
	if article.References == nil {
		article.References = []domain.Reference{}
	}

	refs, err := json.Marshal(article.References)
	if err != nil {
		return domain.Article{}, fmt.Errorf("marshal references: %w", err)
	}

	query, args, err := r.builder.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			article.ID,
			article.Title,
			article.Slug,
			article.PublishedDate.UTC(),
			article.Author,
			article.ContentHTML,
			article.ContentText,
			string(article.VersionType),
			nullable(article.ParentArticleID),
			string(refs),
			article.SourceURL,
			article.CreatedAt,
			article.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.Article{}, fmt.Errorf("create %q: %w", article.Slug, domain.ErrConflict)
		}
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}

	return article, nil
}

// List returns a page of articles, newest first, and the total match count.
func (r *SQLRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{}
	if filter.VersionType != "" {
		where = append(where, sq.Eq{"version_type": string(filter.VersionType)})
	}

	countQuery, countArgs, err := r.builder.Select("COUNT(*)").From(articlesTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	query, args, err := r.builder.Select(articleColumns...).
		From(articlesTable).
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, total, nil
}

// Update applies the non-nil fields of update and returns the stored result.
func (r *SQLRepository) Update(ctx context.Context, id string, update domain.ArticleUpdate) (domain.Article, error) {
	stmt := r.builder.Update(articlesTable).Where(sq.Eq{"id": id}).Set("updated_at", r.now())

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return domain.Article{}, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		stmt = stmt.Set("title", *update.Title)
	}
	if update.Slug != nil {
		if strings.TrimSpace(*update.Slug) == "" {
			return domain.Article{}, fmt.Errorf("%w: slug must not be empty", domain.ErrValidation)
		}
		stmt = stmt.Set("slug", *update.Slug)
	}
	if update.Author != nil {
		stmt = stmt.Set("author", *update.Author)
	}
	if update.PublishedDate != nil {
		stmt = stmt.Set("published_date", update.PublishedDate.UTC())
	}
	if update.ContentHTML != nil {
		stmt = stmt.Set("content_html", *update.ContentHTML)
	}
	if update.ContentText != nil {
		stmt = stmt.Set("content_text", *update.ContentText)
	}
	if update.References != nil {
		refs, err := json.Marshal(*update.References)
		if err != nil {
			return domain.Article{}, fmt.Errorf("marshal references: %w", err)
		}
		stmt = stmt.Set("refs", string(refs))
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Article{}, fmt.Errorf("update %s: %w", id, domain.ErrConflict)
		}
		return domain.Article{}, fmt.Errorf("update article %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}

	return r.Get(ctx, id)
}

// Delete removes the article and any enhanced versions derived from it.
func (r *SQLRepository) Delete(ctx context.Context, id string) (domain.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Article{}, fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := r.builder.Select(articleColumns...).From(articlesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build get: %w", err)
	}
	article, err := scanArticle(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}

	for _, cond := range []sq.Eq{{"parent_article_id": id}, {"id": id}} {
		query, args, err := r.builder.Delete(articlesTable).Where(cond).ToSql()
		if err != nil {
			return domain.Article{}, fmt.Errorf("build delete: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return domain.Article{}, fmt.Errorf("delete article %s: %w", id, err)
		}
		if _, byID := cond["id"]; byID {
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Article{}, fmt.Errorf("commit delete: %w", err)
	}
	return article, nil
}

// Stats counts stored articles per version type.
func (r *SQLRepository) Stats(ctx context.Context) (domain.Stats, error) {
	query, args, err := r.builder.Select("version_type", "COUNT(*)").From(articlesTable).GroupBy("version_type").ToSql()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("build stats: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats domain.Stats
	for rows.Next() {
		var (
			version string
			count   int
		)
		if err := rows.Scan(&version, &count); err != nil {
			return domain.Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch domain.VersionType(version) {
		case domain.VersionOriginal:
			stats.Original = count
		case domain.VersionEnhanced:
			stats.Enhanced = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, fmt.Errorf("rows iteration: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		article domain.Article
		version string
		parent  sql.NullString
		refs    string
	)
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.PublishedDate,
		&article.Author,
		&article.ContentHTML,
		&article.ContentText,
		&version,
		&parent,
		&refs,
		&article.SourceURL,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	article.VersionType = domain.VersionType(version)
	article.ParentArticleID = parent.String
	article.References = []domain.Reference{}
	if refs != "" {
		if err := json.Unmarshal([]byte(refs), &article.References); err != nil {
			return domain.Article{}, fmt.Errorf("decode references: %w", err)
		}
	}
	article.PublishedDate = article.PublishedDate.UTC()
	article.CreatedAt = article.CreatedAt.UTC()
	article.UpdatedAt = article.UpdatedAt.UTC()

	return article, nil
}

func validateNew(a domain.Article) error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case strings.TrimSpace(a.Slug) == "":
		return fmt.Errorf("%w: slug is required", domain.ErrValidation)
	case strings.TrimSpace(a.SourceURL) == "":
		return fmt.Errorf("%w: source url is required", domain.ErrValidation)
	case !a.VersionType.Valid():
		return fmt.Errorf("%w: unknown version type %q", domain.ErrValidation, a.VersionType)
	case a.VersionType == domain.VersionEnhanced && a.ParentArticleID == "":
		return fmt.Errorf("%w: enhanced article requires a parent", domain.ErrValidation)
	case a.VersionType == domain.VersionOriginal && a.ParentArticleID != "":
		return fmt.Errorf("%w: original article cannot have a parent", domain.ErrValidation)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
