// Package graph implements the catalog's GraphQL schema: book, author and
// user resolvers over a Store, and the bookAdded subscription.
package graph

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the catalog schema and binds it to r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r, graphql.MaxParallelism(8))
}
