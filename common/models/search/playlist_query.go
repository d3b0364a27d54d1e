package search

import "strconv"

// Canonical filter fields understood by the playlist search endpoint.
const (
	FieldOwner  FieldName = "owner"
	FieldPublic FieldName = "public"
)

// PlaylistQuery wraps a Query with accessors for the filter fields the
// playlist search endpoint understands.
type PlaylistQuery struct {
	*Query
}

func NewPlaylistQuery(query *Query) PlaylistQuery {
	return PlaylistQuery{Query: query}
}

func (q PlaylistQuery) GetOwnerFilter() *FieldFilter {
	return q.GetFilter(FieldOwner)
}

func (q PlaylistQuery) GetPublicFilter() *FieldFilter {
	return q.GetFilter(FieldPublic)
}

type PlaylistQueryBuilder struct {
	builder *QueryBuilder
}

func NewPlaylistQueryBuilder(existing ...Query) *PlaylistQueryBuilder {
	return &PlaylistQueryBuilder{builder: NewQueryBuilder(existing...)}
}

func (b *PlaylistQueryBuilder) Term(term Term) *PlaylistQueryBuilder {
	b.builder = b.builder.Term(term)
	return b
}

func (b *PlaylistQueryBuilder) WhereOwner(operator Operator, value string) *PlaylistQueryBuilder {
	b.builder = b.builder.Where(FieldOwner, operator, value)
	return b
}

func (b *PlaylistQueryBuilder) WherePublic(operator Operator, value bool) *PlaylistQueryBuilder {
	b.builder = b.builder.Where(FieldPublic, operator, strconv.FormatBool(value))
	return b
}

func (b *PlaylistQueryBuilder) Compile() Query {
	return b.builder.Compile()
}
