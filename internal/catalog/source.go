package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Fetcher downloads a remote catalog document.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Load resolves a catalog location. An empty location yields the built-in
// catalog, http and https URLs go through fetcher, anything else is a path.
func Load(ctx context.Context, location string, fetcher Fetcher) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if location == "" {
		return Default()
	}

	if isRemote(location) {
		if fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for remote catalog %s", location)
		}
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse catalog url: %w", err)
		}
		body, contentType, err := fetcher.Get(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		return Decode(bytes.NewReader(body), FormatFor(u.Path, contentType))
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f, FormatFor(location, ""))
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
