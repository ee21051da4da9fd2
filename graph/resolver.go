package graph

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/metrics"
	"github.com/kevinaaaquil/library-graphql/models"
	"github.com/kevinaaaquil/library-graphql/service"
	"github.com/kevinaaaquil/library-graphql/store"
)

// Store is the persistence the resolvers need. store.DB and store.MemoryDB
// both satisfy it. Lookups return nil, nil when nothing matches.
type Store interface {
	CountBooks(ctx context.Context) (int64, error)
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	FindBooks(ctx context.Context, filter store.BookFilter) ([]models.Book, error)
	CountBooksByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)
	BookCountsByAuthor(ctx context.Context) (map[primitive.ObjectID]int64, error)

	CountAuthors(ctx context.Context) (int64, error)
	AllAuthors(ctx context.Context) ([]models.Author, error)
	AuthorByName(ctx context.Context, name string) (*models.Author, error)
	AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error)
	AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Author, error)
	UpsertAuthor(ctx context.Context, name string) (*models.Author, error)
	SetAuthorBorn(ctx context.Context, name string, born int) (*models.Author, error)

	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Notifier publishes and streams bookAdded events.
type Notifier interface {
	Publish(ev service.BookAdded) int
	Subscribe(ctx context.Context) (<-chan service.BookAdded, error)
}

// Resolver is the root resolver for queries, mutations and subscriptions.
type Resolver struct {
	Store    Store
	Tokens   *service.TokenService
	Notifier Notifier
	// PasswordHash is the bcrypt hash of the shared login password.
	PasswordHash string
	Log          zerolog.Logger
	Metrics      *metrics.Metrics
}
