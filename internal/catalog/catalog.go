package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
	"github.com/rzbill/interticle/internal/record"
	pebblestore "github.com/rzbill/interticle/internal/storage/pebble"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// ErrNotFound is returned when an article or author does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Catalog stores articles and authors.
type Catalog struct {
	db *pebblestore.DB
}

// New returns a catalog backed by db.
func New(db *pebblestore.DB) *Catalog { return &Catalog{db: db} }

// PutArticle writes a, replacing any article with the same id.
func (c *Catalog) PutArticle(ctx context.Context, a record.Article) error {
	b, err := record.StringifyArticle(a)
	if err != nil {
		return err
	}
	return c.db.Set(ctx, KeyArticle(a.ID), b)
}

// GetArticle loads the article with the given id.
func (c *Catalog) GetArticle(id snowflake.ID) (record.Article, error) {
	b, err := c.get(KeyArticle(id))
	if err != nil {
		return record.Article{}, fmt.Errorf("article %s: %w", id, err)
	}
	return record.ParseArticle(b)
}

// PutAuthor writes a, replacing any author with the same id.
func (c *Catalog) PutAuthor(ctx context.Context, a record.Author) error {
	b, err := record.StringifyAuthor(a)
	if err != nil {
		return err
	}
	return c.db.Set(ctx, KeyAuthor(a.ID), b)
}

// GetAuthor loads the author with the given id.
func (c *Catalog) GetAuthor(id snowflake.ID) (record.Author, error) {
	b, err := c.get(KeyAuthor(id))
	if err != nil {
		return record.Author{}, fmt.Errorf("author %s: %w", id, err)
	}
	return record.ParseAuthor(b)
}

// PutArticleWithAuthor writes both records in one batch.
func (c *Catalog) PutArticleWithAuthor(ctx context.Context, a record.Article, au record.Author) error {
	ab, err := record.StringifyArticle(a)
	if err != nil {
		return err
	}
	aub, err := record.StringifyAuthor(au)
	if err != nil {
		return err
	}
	b := c.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyAuthor(au.ID), aub, nil); err != nil {
		return err
	}
	if err := b.Set(KeyArticle(a.ID), ab, nil); err != nil {
		return err
	}
	return c.db.CommitBatch(ctx, b)
}

func (c *Catalog) get(key []byte) ([]byte, error) {
	b, err := c.db.Get(key)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

// ListOptions controls article paging.
type ListOptions struct {
	// After is an exclusive cursor; zero starts at the first (or, with
	// Reverse, the last) article.
	After   snowflake.ID
	Limit   int
	Reverse bool
	// Match filters articles; nil accepts everything. Errors abort the scan.
	Match func(record.Article) (bool, error)
}

// ListArticles returns up to Limit matching articles ordered by id and the
// cursor to pass as After for the next page. The cursor is zero once the
// scan is exhausted.
func (c *Catalog) ListArticles(ctx context.Context, opts ListOptions) ([]record.Article, snowflake.ID, error) {
	// Nothing sorts after the largest id.
	if !opts.Reverse && opts.After == math.MaxUint64 {
		return []record.Article{}, 0, nil
	}
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: articlePrefix,
		UpperBound: prefixUpperBound(articlePrefix),
	})
	if err != nil {
		return nil, 0, err
	}
	defer iter.Close()

	var valid bool
	switch {
	case opts.Reverse && opts.After == 0:
		valid = iter.Last()
	case opts.Reverse:
		valid = iter.SeekLT(KeyArticle(opts.After))
	case opts.After == 0:
		valid = iter.First()
	default:
		valid = iter.SeekGE(KeyArticle(opts.After + 1))
	}

	items := make([]record.Article, 0, max(1, opts.Limit))
	var last snowflake.ID
	for ; valid; valid = step(iter, opts.Reverse) {
		if opts.Limit > 0 && len(items) >= opts.Limit {
			return items, last, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		last = idFromKey(iter.Key())
		a, err := record.ParseArticle(iter.Value())
		if err != nil {
			return nil, 0, err
		}
		if opts.Match != nil {
			ok, err := opts.Match(a)
			if err != nil {
				return nil, 0, err
			}
			if !ok {
				continue
			}
		}
		items = append(items, a)
	}
	return items, 0, iter.Error()
}

func step(iter *pebble.Iterator, reverse bool) bool {
	if reverse {
		return iter.Prev()
	}
	return iter.Next()
}
