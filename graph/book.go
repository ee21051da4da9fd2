package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/middleware"
	"github.com/kevinaaaquil/library-graphql/models"
	"github.com/kevinaaaquil/library-graphql/service"
	"github.com/kevinaaaquil/library-graphql/store"
)

type BookResolver struct {
	book   models.Book
	author *AuthorResolver
	store  Store
}

func (b *BookResolver) ID() graphql.ID { return graphql.ID(b.book.ID.Hex()) }

func (b *BookResolver) Title() string { return b.book.Title }

func (b *BookResolver) Published() int32 { return int32(b.book.Published) }

func (b *BookResolver) Genres() []string {
	if b.book.Genres == nil {
		return []string{}
	}
	return b.book.Genres
}

func (b *BookResolver) Author(ctx context.Context) (*AuthorResolver, error) {
	if b.author != nil {
		return b.author, nil
	}
	a, err := b.store.AuthorByID(ctx, b.book.Author)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.Errorf("author %s of book %s not found", b.book.Author.Hex(), b.book.ID.Hex())
	}
	b.author = &AuthorResolver{author: *a, store: b.store}
	return b.author, nil
}

func (r *Resolver) BookCount(ctx context.Context) (n int32, err error) {
	defer func() { r.Metrics.Observe("bookCount", err) }()
	count, err := r.Store.CountBooks(ctx)
	if err != nil {
		return 0, err
	}
	return int32(count), nil
}

type allBooksArgs struct {
	Author *string
	Genre  *string
}

// AllBooks lists books, optionally narrowed to one author name and/or one
// genre. Authors are loaded in a single batch and attached to the results.
func (r *Resolver) AllBooks(ctx context.Context, args allBooksArgs) (out []*BookResolver, err error) {
	defer func() { r.Metrics.Observe("allBooks", err) }()
	filter := store.BookFilter{Genre: args.Genre}
	if args.Author != nil {
		author, err := r.Store.AuthorByName(ctx, *args.Author)
		if err != nil {
			return nil, err
		}
		if author == nil {
			return []*BookResolver{}, nil
		}
		filter.AuthorID = &author.ID
	}
	books, err := r.Store.FindBooks(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(books))
	seen := make(map[primitive.ObjectID]bool, len(books))
	for _, b := range books {
		if !seen[b.Author] {
			seen[b.Author] = true
			ids = append(ids, b.Author)
		}
	}
	authors, err := r.Store.AuthorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	resolvers := make(map[primitive.ObjectID]*AuthorResolver, len(authors))
	for id, a := range authors {
		resolvers[id] = &AuthorResolver{author: a, store: r.Store}
	}

	out = make([]*BookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &BookResolver{book: b, author: resolvers[b.Author], store: r.Store})
	}
	return out, nil
}

type addBookArgs struct {
	Title     string
	Published int32
	Author    string
	Genres    []string
}

func (a addBookArgs) invalidArgs() map[string]interface{} {
	return map[string]interface{}{
		"title":     a.Title,
		"published": a.Published,
		"author":    a.Author,
		"genres":    a.Genres,
	}
}

// AddBook stores a book, creating its author on first use, and publishes a
// bookAdded event. Input is validated before any write so a rejected book
// leaves no author behind.
func (r *Resolver) AddBook(ctx context.Context, args addBookArgs) (res *BookResolver, err error) {
	defer func() { r.Metrics.Observe("addBook", err) }()
	user, ok := middleware.CurrentUserFromContext(ctx)
	if !ok {
		return nil, errNotAuthenticated
	}

	book := &models.Book{
		Title:     args.Title,
		Published: int(args.Published),
		Genres:    args.Genres,
		CreatedAt: time.Now(),
	}
	if err := book.ValidateFields(); err != nil {
		return nil, userInputError("invalid book", err, args.invalidArgs())
	}
	if err := models.ValidateAuthorName(args.Author); err != nil {
		return nil, userInputError("invalid book", err, args.invalidArgs())
	}

	author, err := r.Store.UpsertAuthor(ctx, args.Author)
	if err != nil {
		return nil, userInputError("saving author failed", err, args.invalidArgs())
	}
	book.Author = author.ID
	id, err := r.Store.InsertBook(ctx, book)
	if err != nil {
		return nil, userInputError("saving book failed", err, args.invalidArgs())
	}
	book.ID = id

	r.Metrics.BookAdded()
	if r.Notifier != nil {
		delivered := r.Notifier.Publish(service.BookAdded{Book: *book, Author: *author})
		r.Log.Debug().Int("subscribers", delivered).Msg("bookAdded published")
	}
	r.Log.Info().
		Str("book", book.ID.Hex()).
		Str("title", book.Title).
		Str("author", author.Name).
		Str("by", user.Username).
		Msg("book added")

	return &BookResolver{
		book:   *book,
		author: &AuthorResolver{author: *author, store: r.Store},
		store:  r.Store,
	}, nil
}
