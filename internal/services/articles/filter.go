package articlesvc

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/rzbill/interticle/internal/record"
)

// articleFilter wraps a compiled CEL program evaluated against each listed
// article. When disabled, Eval always returns true.
type articleFilter struct {
	prog    cel.Program
	epoch   int64
	enabled bool
}

func newArticleFilter(expr string, epoch int64) (articleFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return articleFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("title", cel.StringType),
		cel.Variable("author_id", cel.StringType),
		cel.Variable("origin_url", cel.StringType),
		// Fields decoded from the article id.
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("origin_id", cel.IntType),
		cel.Variable("sequence", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return articleFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return articleFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return articleFilter{}, iss2.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return articleFilter{}, fmt.Errorf("filter must evaluate to bool, got %s", checked.OutputType())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return articleFilter{}, err
	}
	return articleFilter{prog: prog, epoch: epoch, enabled: true}, nil
}

// Eval evaluates the compiled expression against an article. Evaluation
// errors count as a non-match.
func (f articleFilter) Eval(a record.Article) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":         a.ID.String(),
		"title":      a.Title,
		"author_id":  a.AuthorID.String(),
		"origin_url": a.OriginURL,
		"ts_ms":      a.ID.Time(f.epoch).UnixMilli(),
		"origin_id":  int64(a.ID.OriginID()),
		"sequence":   int64(a.ID.SequenceID()),
		"now_ms":     time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
