package articlesvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rzbill/interticle/internal/catalog"
	"github.com/rzbill/interticle/internal/record"
	"github.com/rzbill/interticle/internal/runtime"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"github.com/rzbill/interticle/pkg/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNotFound is returned when an article or author does not exist.
	ErrNotFound = catalog.ErrNotFound
	// ErrUnknownAuthor is returned when an article references a missing author.
	ErrUnknownAuthor = errors.New("articles: unknown author")
	// ErrConflict is returned when an import collides with a different record
	// stored under the same id.
	ErrConflict = errors.New("articles: conflicting record")
	// ErrInvalidRecord is returned for records that fail validation.
	ErrInvalidRecord = errors.New("articles: invalid record")
	// ErrInvalidFilter is returned when a list filter does not compile.
	ErrInvalidFilter = errors.New("articles: invalid filter")
)

// Service provides article and author operations on top of the runtime.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	tracer trace.Tracer
	// writeMu serializes the read-check-write sequences of publish/import.
	writeMu sync.Mutex
}

// New returns a Service using the runtime logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, rt.Logger())
}

// NewWithLogger returns a Service with an explicit logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	return &Service{
		rt:     rt,
		logger: logger.WithComponent("articles"),
		tracer: otel.Tracer("github.com/rzbill/interticle/internal/services/articles"),
	}
}

// MintID returns a fresh id from the server's generator.
func (s *Service) MintID(ctx context.Context) (snowflake.ID, error) {
	_, span := s.tracer.Start(ctx, "articles.MintID")
	defer span.End()
	id, err := s.rt.NextID()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.String("snowflake.id", id.String()))
	return id, nil
}

// IDInfo is the decoded view of an id under this server's layout and epoch.
type IDInfo struct {
	ID           snowflake.ID `json:"id"`
	Layout       string       `json:"layout"`
	TimestampMs  int64        `json:"timestampMs"`
	Time         time.Time    `json:"time"`
	OriginID     uint16       `json:"originId"`
	DatacenterID uint8        `json:"datacenterId,omitempty"`
	WorkerID     uint8        `json:"workerId,omitempty"`
	Sequence     uint16       `json:"sequence"`
	Binary       string       `json:"binary"`
	Base58       string       `json:"base58,omitempty"`
}

// Describe decodes id using the configured epoch and layout.
func (s *Service) Describe(id snowflake.ID) IDInfo {
	gen := s.rt.Generator()
	t := id.Time(gen.Epoch())
	info := IDInfo{
		ID:          id,
		Layout:      gen.Layout().String(),
		TimestampMs: t.UnixMilli(),
		Time:        t,
		OriginID:    id.OriginID(),
		Sequence:    id.SequenceID(),
		Binary:      id.Binary(),
	}
	if gen.Layout() == snowflake.LayoutDatacenter {
		info.DatacenterID = id.DatacenterID()
		info.WorkerID = id.WorkerID()
	}
	if b58, err := id.Base58(); err == nil {
		info.Base58 = b58
	}
	return info
}

// CreateAuthor mints an id for a new author and stores it.
func (s *Service) CreateAuthor(ctx context.Context, name, originURL string) (record.Author, error) {
	id, err := s.MintID(ctx)
	if err != nil {
		return record.Author{}, err
	}
	au := record.Author{ID: id, Name: strings.TrimSpace(name), OriginURL: originURL}
	if err := au.Validate(); err != nil {
		return record.Author{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := s.rt.Catalog().PutAuthor(ctx, au); err != nil {
		return record.Author{}, err
	}
	s.logger.Info("author created", logpkg.Str("author_id", au.ID.String()))
	return au, nil
}

// GetAuthor loads an author.
func (s *Service) GetAuthor(_ context.Context, id snowflake.ID) (record.Author, error) {
	return s.rt.Catalog().GetAuthor(id)
}

// PublishArticle mints an id for a new article by a known author.
func (s *Service) PublishArticle(ctx context.Context, title string, authorID snowflake.ID, originURL string) (record.Article, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.requireAuthor(authorID); err != nil {
		return record.Article{}, err
	}
	id, err := s.MintID(ctx)
	if err != nil {
		return record.Article{}, err
	}
	a := record.Article{ID: id, Title: strings.TrimSpace(title), AuthorID: authorID, OriginURL: originURL}
	if err := a.Validate(); err != nil {
		return record.Article{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	start := time.Now()
	if err := s.rt.Catalog().PutArticle(ctx, a); err != nil {
		return record.Article{}, err
	}
	s.logger.Info("article published",
		logpkg.Str("article_id", a.ID.String()),
		logpkg.Str("author_id", a.AuthorID.String()),
		logpkg.Duration("dur", time.Since(start)))
	return a, nil
}

// ImportArticle stores an article minted by another server, keeping its id.
// When author is non-nil it is stored alongside; otherwise the article's
// author must already be known. Re-importing an identical record is a no-op.
func (s *Service) ImportArticle(ctx context.Context, a record.Article, author *record.Author) (record.Article, error) {
	if err := a.Validate(); err != nil {
		return record.Article{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if author != nil {
		if err := author.Validate(); err != nil {
			return record.Article{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		if author.ID != a.AuthorID {
			return record.Article{}, fmt.Errorf("%w: author %s does not match author_id %s", ErrInvalidRecord, author.ID, a.AuthorID)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cat := s.rt.Catalog()
	existing, err := cat.GetArticle(a.ID)
	switch {
	case err == nil && existing == a:
		return existing, nil
	case err == nil:
		return record.Article{}, fmt.Errorf("%w: article %s", ErrConflict, a.ID)
	case !errors.Is(err, catalog.ErrNotFound):
		return record.Article{}, err
	}

	if author == nil {
		if err := s.requireAuthor(a.AuthorID); err != nil {
			return record.Article{}, err
		}
		if err := cat.PutArticle(ctx, a); err != nil {
			return record.Article{}, err
		}
	} else {
		known, err := cat.GetAuthor(author.ID)
		switch {
		case err == nil && known != *author:
			return record.Article{}, fmt.Errorf("%w: author %s", ErrConflict, author.ID)
		case err != nil && !errors.Is(err, catalog.ErrNotFound):
			return record.Article{}, err
		}
		if err := cat.PutArticleWithAuthor(ctx, a, *author); err != nil {
			return record.Article{}, err
		}
	}
	s.logger.Info("article imported",
		logpkg.Str("article_id", a.ID.String()),
		logpkg.Str("origin_url", a.OriginURL))
	return a, nil
}

func (s *Service) requireAuthor(id snowflake.ID) error {
	_, err := s.rt.Catalog().GetAuthor(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownAuthor, id)
	}
	return err
}

// GetArticle loads an article.
func (s *Service) GetArticle(_ context.Context, id snowflake.ID) (record.Article, error) {
	return s.rt.Catalog().GetArticle(id)
}

// ListOptions controls article listing.
type ListOptions struct {
	// After is an exclusive cursor taken from Page.Next.
	After snowflake.ID
	// Limit is clamped to the configured list limit; zero means the limit.
	Limit   int
	Reverse bool
	// Filter is an optional CEL expression over id, title, author_id,
	// origin_url, ts_ms, origin_id, sequence and now_ms.
	Filter string
}

// Page is one page of articles.
type Page struct {
	Articles []record.Article `json:"articles"`
	// Next is zero when there are no more articles.
	Next snowflake.ID `json:"next,omitempty"`
}

// ListArticles pages over articles in id (creation) order.
func (s *Service) ListArticles(ctx context.Context, opts ListOptions) (Page, error) {
	filter, err := newArticleFilter(opts.Filter, s.rt.Generator().Epoch())
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	limit := s.rt.Config().ListLimit
	if opts.Limit > 0 && opts.Limit < limit {
		limit = opts.Limit
	}
	items, next, err := s.rt.Catalog().ListArticles(ctx, catalog.ListOptions{
		After:   opts.After,
		Limit:   limit,
		Reverse: opts.Reverse,
		Match:   func(a record.Article) (bool, error) { return filter.Eval(a), nil },
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Articles: items, Next: next}, nil
}
