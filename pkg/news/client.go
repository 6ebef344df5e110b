package news

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// Article is a raw record returned by a search provider. PublishedDate is
// kept as provider-supplied text; providers disagree on formats and the
// pipeline only ever needs the year.
type Article struct {
	ID            string
	Title         string
	Description   string
	URL           string
	PublishedDate string
	Source        string
	Query         string
}

type SearchClient interface {
	Search(ctx context.Context, query string, limit int) ([]Article, error)
	Name() string
}

func generateID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}
