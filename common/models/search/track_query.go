package search

import "strconv"

// Canonical filter fields understood by the track search endpoint.
const (
	FieldArtist   FieldName = "artist"
	FieldAlbum    FieldName = "album"
	FieldYear     FieldName = "year"
	FieldExplicit FieldName = "explicit"
)

// TrackQuery wraps a Query with accessors for the filter fields the track
// search endpoint understands.
type TrackQuery struct {
	*Query
}

func NewTrackQuery(query *Query) TrackQuery {
	return TrackQuery{Query: query}
}

func (q TrackQuery) GetArtistFilter() *FieldFilter {
	return q.GetFilter(FieldArtist)
}

func (q TrackQuery) GetAlbumFilter() *FieldFilter {
	return q.GetFilter(FieldAlbum)
}

func (q TrackQuery) GetYearFilter() *FieldFilter {
	return q.GetFilter(FieldYear)
}

func (q TrackQuery) GetExplicitFilter() *FieldFilter {
	return q.GetFilter(FieldExplicit)
}

type TrackQueryBuilder struct {
	builder *QueryBuilder
}

func NewTrackQueryBuilder(existing ...Query) *TrackQueryBuilder {
	return &TrackQueryBuilder{builder: NewQueryBuilder(existing...)}
}

func (b *TrackQueryBuilder) Term(term Term) *TrackQueryBuilder {
	b.builder = b.builder.Term(term)
	return b
}

func (b *TrackQueryBuilder) WhereArtist(operator Operator, value string) *TrackQueryBuilder {
	b.builder = b.builder.Where(FieldArtist, operator, value)
	return b
}

func (b *TrackQueryBuilder) WhereAlbum(operator Operator, value string) *TrackQueryBuilder {
	b.builder = b.builder.Where(FieldAlbum, operator, value)
	return b
}

func (b *TrackQueryBuilder) WhereYear(operator Operator, year int) *TrackQueryBuilder {
	b.builder = b.builder.Where(FieldYear, operator, strconv.Itoa(year))
	return b
}

func (b *TrackQueryBuilder) WhereExplicit(operator Operator, value bool) *TrackQueryBuilder {
	b.builder = b.builder.Where(FieldExplicit, operator, strconv.FormatBool(value))
	return b
}

func (b *TrackQueryBuilder) Compile() Query {
	return b.builder.Compile()
}
