package articlesvc

import (
	"testing"

	"github.com/rzbill/interticle/internal/record"
	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleFilter(t *testing.T) {
	a := record.Article{ID: snowflake.Compose(500, 4, 1), Title: "Go tips", AuthorID: 9, OriginURL: "https://b.example"}

	cases := []struct {
		expr string
		want bool
	}{
		{"", true},
		{`title.startsWith("Go")`, true},
		{`title.contains("Rust")`, false},
		{`author_id == "9"`, true},
		{`origin_url != ""`, true},
		{`ts_ms == 1672531200500`, true},
		{`origin_id == 4 && sequence == 1`, true},
		{`ts_ms < now_ms`, true},
		{`id == "` + a.ID.String() + `"`, true},
	}
	for _, tc := range cases {
		f, err := newArticleFilter(tc.expr, snowflake.Epoch)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, f.Eval(a), tc.expr)
	}
}

func TestArticleFilterRejects(t *testing.T) {
	for _, expr := range []string{"title +", "unknown_var == 1", "origin_id"} {
		_, err := newArticleFilter(expr, snowflake.Epoch)
		assert.Error(t, err, expr)
	}
}
