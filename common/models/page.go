package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/melodio/melodio-go/common/gerror"
)

// Decodable is implemented by types that can appear as the elements of a
// Page. Validate is called after standard JSON unmarshalling and reports
// any missing required field as a gerror MissingRequiredField whose path
// is relative to the element; the page decoder qualifies these paths with
// the item's position in the page.
type Decodable interface {
	Validate() error
}

// Page is one page of results from a paged collection endpoint, together
// with the metadata needed to address its neighbors. Pages are immutable
// once decoded and safe for concurrent readers.
//
// A paging object is positioned either by offset (Offset reports a value)
// or by cursor (Cursors reports a value). Page decodes whichever fields
// the endpoint sent and does not insist on one scheme.
type Page[E Decodable] struct {
	items    []E
	url      string
	limit    int
	offset   *int
	total    *int
	next     string
	previous string
	cursors  *Cursors
}

// pageEnvelope mirrors the wire form of a paging object. Required fields
// are pointers so that absence is distinguishable from a zero value.
type pageEnvelope struct {
	HRef     *string           `json:"href"`
	Items    []json.RawMessage `json:"items"`
	Limit    *int              `json:"limit"`
	Next     *string           `json:"next"`
	Offset   *int              `json:"offset"`
	Previous *string           `json:"previous"`
	Cursors  *Cursors          `json:"cursors"`
	Total    *int              `json:"total"`
}

// UnmarshalJSON decodes the bare paging object form: an envelope with
// required href, items and limit fields. Responses that wrap the paging
// object under a response-specific key are handled by DecodePage, or by
// declaring a struct field of type Page at the wrapper key.
func (p *Page[E]) UnmarshalJSON(data []byte) error {
	var env pageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return malformedPage(err)
	}
	if env.HRef == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"href"})
	}
	if env.Items == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"items"})
	}
	if env.Limit == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"limit"})
	}
	items := make([]E, 0, len(env.Items))
	for i, raw := range env.Items {
		var element E
		if err := json.Unmarshal(raw, &element); err != nil {
			return malformedPage(err).WithPathPrefix(gerror.IndexedStep("items", i))
		}
		if err := element.Validate(); err != nil {
			return gerror.WithPathPrefix(err, gerror.IndexedStep("items", i))
		}
		items = append(items, element)
	}
	page := Page[E]{
		items:   items,
		url:     *env.HRef,
		limit:   *env.Limit,
		offset:  env.Offset,
		total:   env.Total,
		cursors: env.Cursors,
	}
	if env.Next != nil {
		page.next = *env.Next
	}
	if env.Previous != nil {
		page.previous = *env.Previous
	}
	*p = page
	return nil
}

// MarshalJSON encodes the page back into the bare paging object form.
func (p Page[E]) MarshalJSON() ([]byte, error) {
	items := p.items
	if items == nil {
		items = []E{}
	}
	env := struct {
		HRef     string   `json:"href"`
		Items    []E      `json:"items"`
		Limit    int      `json:"limit"`
		Next     *string  `json:"next,omitempty"`
		Offset   *int     `json:"offset,omitempty"`
		Previous *string  `json:"previous,omitempty"`
		Cursors  *Cursors `json:"cursors,omitempty"`
		Total    *int     `json:"total,omitempty"`
	}{
		HRef:    p.url,
		Items:   items,
		Limit:   p.limit,
		Offset:  p.offset,
		Cursors: p.cursors,
		Total:   p.total,
	}
	if p.next != "" {
		env.Next = &p.next
	}
	if p.previous != "" {
		env.Previous = &p.previous
	}
	return json.Marshal(env)
}

// DecodePage decodes one page of results from raw response bytes. Both
// envelope shapes are accepted: the bare paging object, and the same
// object wrapped as the sole value of a single-key JSON object, which is
// how several endpoints respond.
//
// The wrapped form is only considered when the bare decode fails with a
// missing required field at the top level of the envelope. A missing
// field deeper in the structure is a data defect in the response and is
// reported unchanged, as is any malformed or mistyped JSON.
func DecodePage[E Decodable](data []byte) (*Page[E], error) {
	page := new(Page[E])
	err := page.UnmarshalJSON(data)
	if err == nil {
		return page, nil
	}
	if !gerror.IsMissingRequiredField(err) || gerror.PathOf(err).Depth() != 1 {
		return nil, err
	}

	// The envelope itself is missing a required field; the bytes may be a
	// paging object wrapped under a response-specific key.
	var wrapper map[string]json.RawMessage
	if jsonErr := json.Unmarshal(data, &wrapper); jsonErr != nil {
		return nil, err
	}
	if len(wrapper) == 0 {
		return nil, gerror.NewErrEmptyWrappedObject(gerror.PathOf(err))
	}
	if len(wrapper) > 1 {
		return nil, gerror.NewErrMalformedResponse(
			fmt.Sprintf("Expected a single wrapped paging object, found %d keys", len(wrapper)), err)
	}
	var (
		key string
		raw json.RawMessage
	)
	for k, v := range wrapper {
		key, raw = k, v
	}
	wrapped := new(Page[E])
	if wrappedErr := wrapped.UnmarshalJSON(raw); wrappedErr != nil {
		// Wrapper-relative paths keep inner envelope failures below the
		// top level, so the fallback is never reattempted on them.
		return nil, gerror.WithPathPrefix(wrappedErr, key)
	}
	return wrapped, nil
}

// malformedPage converts a json decode failure into a MalformedResponse,
// keeping whatever field path the standard library can attribute.
func malformedPage(err error) gerror.Error {
	gerr := gerror.NewErrMalformedResponse("Response is not a valid paging object", err)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		gerr = gerr.AtPath(gerror.FieldPath(strings.Split(typeErr.Field, ".")))
	}
	return gerr
}

// URL returns the canonical URL of the endpoint call that produced this
// exact page.
func (p *Page[E]) URL() string {
	return p.url
}

// Limit returns the page size that was in effect for this page. The number
// of items actually returned may be smaller.
func (p *Page[E]) Limit() int {
	return p.limit
}

// Offset returns the absolute index of the first item when the endpoint
// paginates by offset.
func (p *Page[E]) Offset() (int, bool) {
	if p.offset == nil {
		return 0, false
	}
	return *p.offset, true
}

// Total returns the number of items in the full collection, when the
// endpoint reports one. Absence means unknown, not zero.
func (p *Page[E]) Total() (int, bool) {
	if p.total == nil {
		return 0, false
	}
	return *p.total, true
}

// NextURL returns the URL of the following page, if the server advertised
// one.
func (p *Page[E]) NextURL() (string, bool) {
	return p.next, p.next != ""
}

// PreviousURL returns the URL of the preceding page, if the server
// advertised one.
func (p *Page[E]) PreviousURL() (string, bool) {
	return p.previous, p.previous != ""
}

// Cursors returns the cursor markers for the adjacent result sets when the
// endpoint paginates by cursor.
func (p *Page[E]) Cursors() (Cursors, bool) {
	if p.cursors == nil {
		return Cursors{}, false
	}
	return *p.cursors, true
}

// HasNext reports whether the server advertised a following page.
func (p *Page[E]) HasNext() bool {
	return p.next != ""
}

// HasPrevious reports whether the server advertised a preceding page.
func (p *Page[E]) HasPrevious() bool {
	return p.previous != ""
}

// Len returns the number of items on this page.
func (p *Page[E]) Len() int {
	return len(p.items)
}

// At returns the item at index i in response order, or IndexOutOfRange
// when i is outside [0, Len()).
func (p *Page[E]) At(i int) (E, error) {
	if i < 0 || i >= len(p.items) {
		var zero E
		return zero, gerror.NewErrIndexOutOfRange(i, len(p.items))
	}
	return p.items[i], nil
}

// Neighbor returns the index adjacent to i in the given direction. It
// returns IndexOutOfRange when i is not a valid index, or when the
// neighbor would fall outside the page.
func (p *Page[E]) Neighbor(i int, d Direction) (int, error) {
	if i < 0 || i >= len(p.items) {
		return 0, gerror.NewErrIndexOutOfRange(i, len(p.items))
	}
	var neighbor int
	switch d {
	case DirectionPrevious:
		neighbor = i - 1
	case DirectionNext:
		neighbor = i + 1
	default:
		return 0, gerror.NewErrValidationFailed(fmt.Sprintf("error unknown direction %q", d))
	}
	if neighbor < 0 || neighbor >= len(p.items) {
		return 0, gerror.NewErrIndexOutOfRange(neighbor, len(p.items))
	}
	return neighbor, nil
}

// Items returns a copy of the page's items in response order.
func (p *Page[E]) Items() []E {
	items := make([]E, len(p.items))
	copy(items, p.items)
	return items
}

// Each calls fn with each index and item in response order until fn
// returns false. Pages are immutable, so traversal is restartable and
// has no side effects.
func (p *Page[E]) Each(fn func(i int, element E) bool) {
	for i, element := range p.items {
		if !fn(i, element) {
			return
		}
	}
}
