package repository

import (
	"context"

	"github.com/habitstack/stickerdb/internal/domain"
)

// Labels returns the label set for the repository's scope. In remote mode a
// missing row seeds the defaults remotely (best effort) so later devices see
// the same set; label failures never surface past the status snapshot.
func (r *Repository) Labels(ctx context.Context) domain.StickerLabels {
	if r.remote == nil {
		return r.local.GetLabels(r.owner, r.year, r.month)
	}

	r.mu.Lock()
	cached := r.labels
	r.mu.Unlock()
	if cached != (domain.StickerLabels{}) {
		return cached
	}

	labels, err := r.remote.GetLabels(ctx, r.owner.UserID, r.year, r.month)
	if err != nil || labels == nil {
		defaults := domain.DefaultLabels()
		if err == nil {
			// No record yet: seed the defaults, ignoring the outcome.
			_, _ = r.remote.UpsertLabels(ctx, r.owner.UserID, r.year, r.month, defaults)
		}
		r.mu.Lock()
		r.labels = defaults
		if err != nil {
			r.lastErr = err
		}
		r.mu.Unlock()
		return defaults
	}

	r.mu.Lock()
	r.labels = *labels
	r.mu.Unlock()
	return *labels
}

// UpdateLabel replaces one category's label, truncated to the maximum length.
// In remote mode the cached label set updates optimistically and reverts if
// the remote write fails.
func (r *Repository) UpdateLabel(ctx context.Context, category domain.Category, text string) (domain.StickerLabels, error) {
	if r.remote == nil {
		return r.local.UpdateLabel(r.owner, r.year, r.month, category, text), nil
	}

	current := r.Labels(ctx)
	next := current.WithLabel(category, text)

	r.mu.Lock()
	r.labels = next
	r.mu.Unlock()

	_, err := r.remote.UpsertLabels(ctx, r.owner.UserID, r.year, r.month, next)
	if err != nil {
		r.mu.Lock()
		r.labels = current
		r.lastErr = err
		r.mu.Unlock()
		return current, err
	}

	r.mu.Lock()
	r.lastErr = nil
	r.mu.Unlock()
	return next, nil
}
