package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rzbill/interticle/pkg/snowflake"
)

// ErrInvalid reports a record that fails validation.
var ErrInvalid = errors.New("record: invalid")

// Article is an article shared between servers.
type Article struct {
	ID       snowflake.ID `json:"id"`
	Title    string       `json:"title"`
	AuthorID snowflake.ID `json:"author_id"`
	// OriginURL is set when the article lives on another server.
	OriginURL string `json:"origin_url,omitempty"`
}

// Validate checks required fields.
func (a Article) Validate() error {
	switch {
	case a.ID == 0:
		return fmt.Errorf("%w: article id is required", ErrInvalid)
	case a.AuthorID == 0:
		return fmt.Errorf("%w: article author_id is required", ErrInvalid)
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: article title is required", ErrInvalid)
	}
	return nil
}

// Author is an article author.
type Author struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	OriginURL string       `json:"origin_url,omitempty"`
}

// Validate checks required fields.
func (a Author) Validate() error {
	switch {
	case a.ID == 0:
		return fmt.Errorf("%w: author id is required", ErrInvalid)
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: author name is required", ErrInvalid)
	}
	return nil
}

// ParseArticle decodes an article from its wire form.
func ParseArticle(b []byte) (Article, error) {
	var a Article
	if err := json.Unmarshal(b, &a); err != nil {
		return Article{}, fmt.Errorf("record: parse article: %w", err)
	}
	return a, nil
}

// StringifyArticle encodes an article to its wire form.
func StringifyArticle(a Article) ([]byte, error) { return json.Marshal(a) }

// ParseAuthor decodes an author from its wire form.
func ParseAuthor(b []byte) (Author, error) {
	var a Author
	if err := json.Unmarshal(b, &a); err != nil {
		return Author{}, fmt.Errorf("record: parse author: %w", err)
	}
	return a, nil
}

// StringifyAuthor encodes an author to its wire form.
func StringifyAuthor(a Author) ([]byte, error) { return json.Marshal(a) }
