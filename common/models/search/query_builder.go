package search

import "fmt"

// QueryBuilder makes it convenient to programmatically create search queries.
type QueryBuilder struct {
	query Query
}

func NewQueryBuilder(existing ...Query) *QueryBuilder {
	var query Query
	switch len(existing) {
	case 0:
		query = NewQuery()
	case 1:
		query = existing[0]
	default:
		panic("expected zero or one existing queries")
	}
	return &QueryBuilder{query: query}
}

// Term adds free text to search for. Multiple terms are concatenated.
func (b *QueryBuilder) Term(term Term) *QueryBuilder {
	if b.query.Term == nil {
		b.query.Term = &term
	} else {
		term := Term(fmt.Sprintf("%s %s", *b.query.Term, term))
		b.query.Term = &term
	}
	return b
}

// Where records a field filter to constrain search results to.
// Where() fields are ANDd together; repeating a field keeps the first filter.
func (b *QueryBuilder) Where(field FieldName, operator Operator, value string) *QueryBuilder {
	if _, ok := b.query.fieldFiltersByFieldName[field]; !ok {
		filter := NewFieldFilter(field, operator, value)
		b.query.Filters = append(b.query.Filters, filter)
		b.query.fieldFiltersByFieldName[field] = filter
	}
	return b
}

// Compile outputs the built query.
func (b *QueryBuilder) Compile() Query {
	return b.query
}
