package transports

import (
	"context"

	"github.com/rzbill/interticle/pkg/snowflake"
)

// IDTransport mints and decodes ids on a server.
type IDTransport interface {
	NextID(ctx context.Context) (snowflake.ID, error)
	Decode(ctx context.Context, id snowflake.ID) (map[string]any, error)
}

// ArticlesTransport abstracts the author/article API used by the CLI.
//
// Responses are generic JSON objects whose id and author_id fields are
// decoded into snowflake.ID values.
type ArticlesTransport interface {
	CreateAuthor(ctx context.Context, name, originURL string) (map[string]any, error)
	GetAuthor(ctx context.Context, id snowflake.ID) (map[string]any, error)
	PublishArticle(ctx context.Context, title string, authorID snowflake.ID, originURL string) (map[string]any, error)
	GetArticle(ctx context.Context, id snowflake.ID) (map[string]any, error)
	ListArticles(ctx context.Context, req ListRequest) (map[string]any, error)
}

// ListRequest describes an article listing.
type ListRequest struct {
	Filter  string
	Limit   int
	After   snowflake.ID
	Reverse bool
}
