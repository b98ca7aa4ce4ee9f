package articlesvc

import (
	"context"
	"sync/atomic"
	"testing"

	cfgpkg "github.com/rzbill/interticle/internal/config"
	"github.com/rzbill/interticle/internal/record"
	"github.com/rzbill/interticle/internal/runtime"
	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService returns a service whose clock advances one millisecond per
// mint so ids are distinct and predictable.
func newTestService(t *testing.T, mutate func(*cfgpkg.Config)) *Service {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.OriginID = 3
	cfg.Fsync = "never"
	if mutate != nil {
		mutate(&cfg)
	}
	var now atomic.Int64
	now.Store(snowflake.Epoch + 1000)
	rt, err := runtime.Open(runtime.Options{Config: cfg, Clock: func() int64 { return now.Add(1) }})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt)
}

func TestMintIDAndDescribe(t *testing.T) {
	svc := newTestService(t, nil)
	id, err := svc.MintID(context.Background())
	require.NoError(t, err)

	info := svc.Describe(id)
	assert.Equal(t, "origin", info.Layout)
	assert.Equal(t, uint16(3), info.OriginID)
	assert.Equal(t, uint16(0), info.Sequence)
	assert.Equal(t, snowflake.Epoch+1001, info.TimestampMs)
	assert.Len(t, info.Binary, 64)
	assert.NotEmpty(t, info.Base58)
	assert.Zero(t, info.DatacenterID)
}

func TestDescribeDatacenterLayout(t *testing.T) {
	svc := newTestService(t, func(c *cfgpkg.Config) {
		c.Layout = "datacenter"
		c.DatacenterID = 2
		c.WorkerID = 9
	})
	id, err := svc.MintID(context.Background())
	require.NoError(t, err)
	info := svc.Describe(id)
	assert.Equal(t, "datacenter", info.Layout)
	assert.Equal(t, uint8(2), info.DatacenterID)
	assert.Equal(t, uint8(9), info.WorkerID)
}

func TestPublishRequiresAuthor(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.PublishArticle(ctx, "hello", 12345, "")
	assert.ErrorIs(t, err, ErrUnknownAuthor)

	au, err := svc.CreateAuthor(ctx, "ada", "")
	require.NoError(t, err)
	a, err := svc.PublishArticle(ctx, "  hello  ", au.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", a.Title)
	assert.Greater(t, a.ID, au.ID)

	got, err := svc.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestPublishValidates(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	_, err := svc.CreateAuthor(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrInvalidRecord)

	au, err := svc.CreateAuthor(ctx, "ada", "")
	require.NoError(t, err)
	_, err = svc.PublishArticle(ctx, "", au.ID, "")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGetMissing(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.GetArticle(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetAuthor(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportArticle(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	remoteAuthor := record.Author{ID: snowflake.Compose(10, 900, 0), Name: "remote", OriginURL: "https://b.example"}
	remote := record.Article{ID: snowflake.Compose(11, 900, 0), Title: "from b", AuthorID: remoteAuthor.ID, OriginURL: "https://b.example"}

	_, err := svc.ImportArticle(ctx, remote, nil)
	assert.ErrorIs(t, err, ErrUnknownAuthor)

	got, err := svc.ImportArticle(ctx, remote, &remoteAuthor)
	require.NoError(t, err)
	assert.Equal(t, remote, got)
	assert.Equal(t, uint16(900), got.ID.OriginID())

	// identical re-import is a no-op
	_, err = svc.ImportArticle(ctx, remote, nil)
	require.NoError(t, err)

	changed := remote
	changed.Title = "edited"
	_, err = svc.ImportArticle(ctx, changed, nil)
	assert.ErrorIs(t, err, ErrConflict)

	other := record.Article{ID: snowflake.Compose(12, 900, 0), Title: "x", AuthorID: remoteAuthor.ID}
	renamed := remoteAuthor
	renamed.Name = "someone else"
	_, err = svc.ImportArticle(ctx, other, &renamed)
	assert.ErrorIs(t, err, ErrConflict)

	mismatched := record.Author{ID: 77, Name: "m"}
	_, err = svc.ImportArticle(ctx, other, &mismatched)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestListArticlesFilterAndPaging(t *testing.T) {
	svc := newTestService(t, func(c *cfgpkg.Config) { c.ListLimit = 2 })
	ctx := context.Background()

	au, err := svc.CreateAuthor(ctx, "ada", "")
	require.NoError(t, err)
	var ids []snowflake.ID
	for _, title := range []string{"Go one", "Rust", "Go two", "Go three"} {
		a, err := svc.PublishArticle(ctx, title, au.ID, "")
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	// Limit above ListLimit is clamped.
	page, err := svc.ListArticles(ctx, ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	assert.Equal(t, ids[1], page.Next)

	page, err = svc.ListArticles(ctx, ListOptions{Filter: `title.startsWith("Go")`, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	assert.Equal(t, ids[0], page.Articles[0].ID)
	assert.Equal(t, ids[2], page.Articles[1].ID)

	page, err = svc.ListArticles(ctx, ListOptions{Filter: `title.startsWith("Go")`, After: page.Next})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, ids[3], page.Articles[0].ID)
	assert.Zero(t, page.Next)

	page, err = svc.ListArticles(ctx, ListOptions{Filter: `author_id == "` + au.ID.String() + `" && origin_id == 3`, Reverse: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, ids[3], page.Articles[0].ID)
}

func TestListArticlesInvalidFilter(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.ListArticles(context.Background(), ListOptions{Filter: "title +"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = svc.ListArticles(context.Background(), ListOptions{Filter: "title"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
