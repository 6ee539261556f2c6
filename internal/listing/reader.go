// Package listing provides the read path over the remote employee list.
package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

// DefaultTop caps a roster read at the store's per-request ceiling.
const DefaultTop = 999

// Pager yields successive pages of list items. Page boundaries belong to the
// remote client.
type Pager interface {
	More() bool
	NextPage(ctx context.Context) ([]sharepoint.Item, error)
}

// PagerFunc issues a fresh pager for each read; pagers are single use.
type PagerFunc func() Pager

// Reader drains every page the remote client yields into one ordered slice.
type Reader struct {
	pagers PagerFunc
	logger *zap.Logger
}

// NewReader builds a reader over the given pager source.
func NewReader(pagers PagerFunc, logger *zap.Logger) *Reader {
	return &Reader{pagers: pagers, logger: logger}
}

// FetchAll concatenates all pages in order. A failing page propagates the
// client's error; no partial result is returned.
func (r *Reader) FetchAll(ctx context.Context) ([]sharepoint.Item, error) {
	pager := r.pagers()
	var all []sharepoint.Item
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to drain list pages: %w", err)
		}
		all = append(all, page...)
	}
	r.logger.Debug("roster fetched", zap.Int("items", len(all)))
	return all, nil
}
