package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Article is a cached news article kept server-side for the analytics page.
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	PublicationDate time.Time `json:"publication_date"`
	Category        string    `json:"category"`
}

type dbArticle struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Content         string    `db:"content"`
	PublicationDate time.Time `db:"publication_date"`
	Category        string    `db:"category"`
}

// AddArticle inserts an article and returns its generated id.
func (s *Store) AddArticle(ctx context.Context, a Article) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.PublicationDate.IsZero() {
		a.PublicationDate = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO news_articles (id, title, content, publication_date, category)
VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Title, a.Content, a.PublicationDate, a.Category)
	if err != nil {
		return "", fmt.Errorf("inserting article: %w", err)
	}
	return a.ID, nil
}

// ArticleByID fetches one article.
func (s *Store) ArticleByID(ctx context.Context, id string) (*Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row, `
SELECT id, title, content, publication_date, category
FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("loading article %s: %w", id, err)
	}
	return (*Article)(&row), nil
}

// clampLimit keeps page sizes in [1, 100]; zero or negative falls back to
// the default page, oversized asks get the maximum rather than fewer rows.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	}
	return limit
}

// RecentArticles lists the newest articles, newest first.
func (s *Store) RecentArticles(ctx context.Context, limit int) ([]Article, error) {
	limit = clampLimit(limit)

	var rows []dbArticle
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, title, content, publication_date, category
FROM news_articles
ORDER BY publication_date DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	return lo.Map(rows, func(r dbArticle, _ int) Article {
		return Article(r)
	}), nil
}
