package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/kevinaaaquil/library-graphql/middleware"
	"github.com/kevinaaaquil/library-graphql/models"
)

// AuthorResolver resolves an author. bookCount is computed from the books
// collection: preloaded by allAuthors, otherwise counted on demand.
type AuthorResolver struct {
	author models.Author
	count  *int64
	store  Store
}

func (a *AuthorResolver) ID() graphql.ID { return graphql.ID(a.author.ID.Hex()) }

func (a *AuthorResolver) Name() string { return a.author.Name }

func (a *AuthorResolver) Born() *int32 {
	if a.author.Born == nil {
		return nil
	}
	born := int32(*a.author.Born)
	return &born
}

func (a *AuthorResolver) BookCount(ctx context.Context) (int32, error) {
	if a.count != nil {
		return int32(*a.count), nil
	}
	n, err := a.store.CountBooksByAuthor(ctx, a.author.ID)
	if err != nil {
		return 0, err
	}
	a.count = &n
	return int32(n), nil
}

func (r *Resolver) AuthorCount(ctx context.Context) (n int32, err error) {
	defer func() { r.Metrics.Observe("authorCount", err) }()
	count, err := r.Store.CountAuthors(ctx)
	if err != nil {
		return 0, err
	}
	return int32(count), nil
}

// AllAuthors returns every author with its book count taken from one
// grouping pass over the books.
func (r *Resolver) AllAuthors(ctx context.Context) (out []*AuthorResolver, err error) {
	defer func() { r.Metrics.Observe("allAuthors", err) }()
	authors, err := r.Store.AllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.Store.BookCountsByAuthor(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]*AuthorResolver, 0, len(authors))
	for _, a := range authors {
		n := counts[a.ID]
		out = append(out, &AuthorResolver{author: a, count: &n, store: r.Store})
	}
	return out, nil
}

type editAuthorArgs struct {
	Name      string
	SetBornTo int32
}

// EditAuthor sets born on the named author. An unknown name yields null.
func (r *Resolver) EditAuthor(ctx context.Context, args editAuthorArgs) (res *AuthorResolver, err error) {
	defer func() { r.Metrics.Observe("editAuthor", err) }()
	if _, ok := middleware.CurrentUserFromContext(ctx); !ok {
		return nil, errNotAuthenticated
	}
	author, err := r.Store.SetAuthorBorn(ctx, args.Name, int(args.SetBornTo))
	if err != nil {
		return nil, userInputError("saving author failed", err, map[string]interface{}{
			"name":      args.Name,
			"setBornTo": args.SetBornTo,
		})
	}
	if author == nil {
		return nil, nil
	}
	return &AuthorResolver{author: *author, store: r.Store}, nil
}
