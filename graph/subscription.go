package graph

import (
	"context"
)

// BookAdded streams every book created after the subscription starts. The
// stream ends with ctx or when the notifier shuts down.
func (r *Resolver) BookAdded(ctx context.Context) <-chan *BookResolver {
	out := make(chan *BookResolver)
	if r.Notifier == nil {
		close(out)
		return out
	}
	events, err := r.Notifier.Subscribe(ctx)
	if err != nil {
		r.Log.Warn().Err(err).Msg("bookAdded subscription refused")
		close(out)
		return out
	}
	r.Metrics.Observe("bookAdded", nil)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				author := &AuthorResolver{author: ev.Author, store: r.Store}
				select {
				case out <- &BookResolver{book: ev.Book, author: author, store: r.Store}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
