package handlers

import (
	"context"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/rs/zerolog"

	"github.com/kevinaaaquil/library-graphql/middleware"
)

// GraphQLHandler serves queries and mutations over HTTP POST and
// subscriptions over websocket (graphql-ws subprotocol) on one endpoint.
type GraphQLHandler struct {
	Schema *graphql.Schema
	Log    zerolog.Logger
}

func (h *GraphQLHandler) Handler() http.Handler {
	return graphqlws.NewHandlerFunc(
		h.Schema,
		&relay.Handler{Schema: h.Schema},
		graphqlws.WithContextGenerator(graphqlws.ContextGeneratorFunc(h.subscriptionContext)),
	)
}

// subscriptionContext carries the caller resolved by the Auth middleware on
// the upgrade request into the long-lived subscription context.
func (h *GraphQLHandler) subscriptionContext(ctx context.Context, r *http.Request) (context.Context, error) {
	ac := middleware.AuthContextFrom(r.Context())
	ev := h.Log.Debug().Str("remote", r.RemoteAddr)
	if ac.User != nil {
		ev = ev.Str("user", ac.User.Username)
	}
	ev.Msg("subscription connection")
	return middleware.WithAuthContext(ctx, ac), nil
}
