package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/kevinaaaquil/library-graphql/middleware"
	"github.com/kevinaaaquil/library-graphql/models"
	"github.com/kevinaaaquil/library-graphql/utils"
)

type UserResolver struct {
	user models.User
}

func (u *UserResolver) ID() graphql.ID { return graphql.ID(u.user.ID.Hex()) }

func (u *UserResolver) Username() string { return u.user.Username }

func (u *UserResolver) FavoriteGenre() string { return u.user.FavoriteGenre }

type TokenResolver struct {
	value string
}

func (t *TokenResolver) Value() string { return t.value }

type createUserArgs struct {
	Username      string
	FavoriteGenre string
}

func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (res *UserResolver, err error) {
	defer func() { r.Metrics.Observe("createUser", err) }()
	user := &models.User{
		Username:      args.Username,
		FavoriteGenre: args.FavoriteGenre,
		CreatedAt:     time.Now(),
	}
	id, err := r.Store.CreateUser(ctx, user)
	if err != nil {
		return nil, userInputError("creating user failed", err, map[string]interface{}{
			"username":      args.Username,
			"favoriteGenre": args.FavoriteGenre,
		})
	}
	user.ID = id
	r.Log.Info().Str("user", id.Hex()).Str("username", user.Username).Msg("user created")
	return &UserResolver{user: *user}, nil
}

type loginArgs struct {
	Username string
	Password string
}

// Login checks the shared password for an existing user and returns a
// signed token carrying the user's name and id.
func (r *Resolver) Login(ctx context.Context, args loginArgs) (res *TokenResolver, err error) {
	defer func() { r.Metrics.Observe("login", err) }()
	user, err := r.Store.UserByUsername(ctx, args.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || r.PasswordHash == "" || !utils.CheckPassword(r.PasswordHash, args.Password) {
		return nil, userInputError("wrong credentials", nil, map[string]interface{}{
			"username": args.Username,
		})
	}
	token, err := r.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResolver{value: token}, nil
}

// Me returns the caller, or null for anonymous requests.
func (r *Resolver) Me(ctx context.Context) *UserResolver {
	user, ok := middleware.CurrentUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &UserResolver{user: *user}
}
