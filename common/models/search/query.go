package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/melodio/melodio-go/common/gerror"
)

const (
	Equal                Operator = "="
	GreaterThan          Operator = ">"
	GreaterThanOrEqualTo Operator = ">="
	LessThan             Operator = "<"
	LessThanOrEqualTo    Operator = "<="
)

// operatorSet is the set of supported operators sorted by string length.
// Use to do prefix matching during query parsing, where we need to evaluate
// the longest prefix matches first. Sorted by the init() func below as a backup.
var operatorSet = []Operator{
	GreaterThanOrEqualTo,
	LessThanOrEqualTo,
	Equal,
	GreaterThan,
	LessThan,
}

func init() {
	sort.SliceStable(operatorSet, func(i, j int) bool {
		return len(operatorSet[i]) > len(operatorSet[j])
	})
}

type FieldName string

type Operator string

func (o Operator) String() string {
	return string(o)
}

// Query describes a catalog search: a free-text term plus zero or more
// field filters, e.g. `night drive artist:Motors year:>=1988`.
// Which filter fields are meaningful depends on the result type searched;
// the server rejects filters it does not know.
type Query struct {
	// Term will be searched for across names and descriptions.
	Term *Term `json:"term"`
	// Filters nominates zero or more fields to constrain results on.
	// Filters are ANDd together.
	Filters []*FieldFilter `json:"filters"`
	// fieldFiltersByFieldName is Filters keyed by field name.
	fieldFiltersByFieldName map[FieldName]*FieldFilter
}

func NewQuery() Query {
	return Query{
		fieldFiltersByFieldName: map[FieldName]*FieldFilter{},
	}
}

func (q *Query) GetFilter(fieldName FieldName) *FieldFilter {
	return q.fieldFiltersByFieldName[fieldName]
}

func (q *Query) Validate() error {
	if (q.Term == nil || *q.Term == "") && len(q.Filters) == 0 {
		return gerror.NewErrValidationFailed("error search query must contain a term or at least one field filter")
	}
	return nil
}

// String renders the query in the form the search endpoint accepts as its
// q parameter. Filters render in the order they were added.
func (q *Query) String() string {
	str := ""
	if q.Term != nil {
		str += quoteIfNeeded(q.Term.String())
	}
	for _, filter := range q.Filters {
		if filter.Operator == Equal { // Default operator can be omitted
			str += fmt.Sprintf(" %s:%s", filter.Field, quoteIfNeeded(filter.Value))
		} else {
			str += fmt.Sprintf(" %s:%s%s", filter.Field, filter.Operator, filter.Value)
		}
	}
	return strings.Trim(str, " ")
}

func (q *Query) UnmarshalJSON(data []byte) error {
	x := struct {
		Term    *Term          `json:"term"`
		Filters []*FieldFilter `json:"filters"`
	}{}
	err := json.Unmarshal(data, &x)
	if err != nil {
		return err
	}
	q.Term = x.Term
	q.Filters = x.Filters
	q.fieldFiltersByFieldName = map[FieldName]*FieldFilter{}
	for _, filter := range q.Filters {
		q.fieldFiltersByFieldName[filter.Field] = filter
	}
	return nil
}

// quoteIfNeeded wraps a token in double quotes when it contains spaces,
// escaping any embedded quotes, so that it survives re-parsing.
func quoteIfNeeded(s string) string {
	if !strings.ContainsRune(s, ' ') {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

type Term string

func (t Term) String() string {
	return string(t)
}

type FieldFilter struct {
	Field    FieldName `json:"field"`
	Operator Operator  `json:"operator"`
	Value    string    `json:"value"`
}

func NewFieldFilter(field FieldName, operator Operator, value string) *FieldFilter {
	return &FieldFilter{
		Field:    field,
		Operator: operator,
		Value:    value,
	}
}

func (c FieldFilter) ValueString() string {
	return c.Value
}

func (c FieldFilter) ValueInt() int {
	i, _ := strconv.ParseInt(c.Value, 10, 64)
	return int(i)
}

func (c FieldFilter) ValueBool() bool {
	b, _ := strconv.ParseBool(c.Value)
	return b
}
