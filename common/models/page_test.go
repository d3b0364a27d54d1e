package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/melodio/melodio-go/common/gerror"
)

// catalogItem is a minimal page element with a single required field.
type catalogItem struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

func (m catalogItem) Validate() error {
	if !m.ID.Valid() {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"id"})
	}
	return nil
}

func TestPageDecodeBare(t *testing.T) {
	data := []byte(`{"items":[{"id":"a"},{"id":"b"}],"href":"https://x/y","limit":20,"next":null,"offset":0,"previous":null,"total":2}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)

	require.Equal(t, 2, page.Len())
	first, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, ID("a"), first.ID)
	second, err := page.At(1)
	require.NoError(t, err)
	require.Equal(t, ID("b"), second.ID)

	require.Equal(t, "https://x/y", page.URL())
	require.Equal(t, 20, page.Limit())
	offset, ok := page.Offset()
	require.True(t, ok)
	require.Equal(t, 0, offset)
	total, ok := page.Total()
	require.True(t, ok)
	require.Equal(t, 2, total)
	_, ok = page.NextURL()
	require.False(t, ok)
	require.False(t, page.HasNext())
	require.False(t, page.HasPrevious())
}

func TestPageRoundTrip(t *testing.T) {
	data := []byte(`{
		"href": "https://api.melodio.dev/v1/me/tracks?offset=20&limit=2",
		"items": [{"id": "t1", "name": "First"}, {"id": "t2", "name": "Second"}],
		"limit": 2,
		"next": "https://api.melodio.dev/v1/me/tracks?offset=22&limit=2",
		"offset": 20,
		"previous": "https://api.melodio.dev/v1/me/tracks?offset=18&limit=2",
		"total": 117
	}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)
	require.Equal(t, []catalogItem{{ID: "t1", Name: "First"}, {ID: "t2", Name: "Second"}}, page.Items())
	require.True(t, page.HasNext())
	require.True(t, page.HasPrevious())
	next, ok := page.NextURL()
	require.True(t, ok)
	require.Equal(t, "https://api.melodio.dev/v1/me/tracks?offset=22&limit=2", next)
	previous, ok := page.PreviousURL()
	require.True(t, ok)
	require.Equal(t, "https://api.melodio.dev/v1/me/tracks?offset=18&limit=2", previous)

	encoded, err := json.Marshal(page)
	require.NoError(t, err)
	again, err := DecodePage[catalogItem](encoded)
	require.NoError(t, err)
	require.Equal(t, page, again)
}

func TestPageDecodeWrapped(t *testing.T) {
	bare := `{"href":"https://x/y","items":[{"id":"a"}],"limit":10}`
	direct, err := DecodePage[catalogItem]([]byte(bare))
	require.NoError(t, err)

	// The same payload under an arbitrary single key decodes to an
	// identical page.
	viaWrapper, err := DecodePage[catalogItem]([]byte(`{"albums":` + bare + `}`))
	require.NoError(t, err)
	require.Equal(t, direct, viaWrapper)
}

func TestPageDecodeCursors(t *testing.T) {
	data := []byte(`{"href":"https://x/following","items":[{"id":"u1"}],"limit":10,"cursors":{"after":"u1"},"next":"https://x/following?after=u1"}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)

	cursors, ok := page.Cursors()
	require.True(t, ok)
	require.NotNil(t, cursors.After)
	require.Equal(t, "u1", *cursors.After)
	require.Nil(t, cursors.Before)

	_, ok = page.Offset()
	require.False(t, ok)
	// An absent total means unknown, which is not the same as zero.
	_, ok = page.Total()
	require.False(t, ok)
}

func TestPageDecodeRequiredEnvelopeFields(t *testing.T) {
	var page Page[catalogItem]

	err := page.UnmarshalJSON([]byte(`{"items":[],"limit":5}`))
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "href", gerror.PathOf(err).String())

	err = page.UnmarshalJSON([]byte(`{"href":"https://x","limit":5}`))
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "items", gerror.PathOf(err).String())

	err = page.UnmarshalJSON([]byte(`{"href":"https://x","items":[]}`))
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "limit", gerror.PathOf(err).String())
}

func TestPageDecodeNestedErrorDoesNotFallBack(t *testing.T) {
	// A missing required field inside an element is a data defect, not an
	// alternate envelope shape; the wrapped reinterpretation must not run.
	data := []byte(`{"href":"https://x/y","items":[{"id":"a"},{"name":"missing id"}],"limit":10}`)
	_, err := DecodePage[catalogItem](data)
	require.Error(t, err)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.False(t, gerror.IsEmptyWrappedObject(err))
	require.Equal(t, "items[1].id", gerror.PathOf(err).String())

	// The same holds one level down in the wrapped shape.
	wrapped := []byte(`{"tracks":{"href":"https://x/y","items":[{}],"limit":10}}`)
	_, err = DecodePage[catalogItem](wrapped)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "tracks.items[0].id", gerror.PathOf(err).String())
}

func TestPageDecodeEmptyWrapper(t *testing.T) {
	_, err := DecodePage[catalogItem]([]byte(`{}`))
	require.Error(t, err)
	require.True(t, gerror.IsEmptyWrappedObject(err))
	require.Equal(t, "href", gerror.PathOf(err).String())
}

func TestPageDecodeMultiKeyWrapper(t *testing.T) {
	// The wrapped shape is defined as a single-key object. Responses with
	// sibling keys need a dedicated document type with the page declared
	// as a struct field.
	data := []byte(`{"message":"hi","playlists":{"href":"https://x/y","items":[],"limit":20}}`)
	_, err := DecodePage[catalogItem](data)
	require.Error(t, err)
	require.True(t, gerror.IsMalformedResponse(err))
}

func TestPageDecodeIncompleteBareEnvelope(t *testing.T) {
	// A bare envelope missing limit cannot be reinterpreted as a wrapper
	// either; the original missing-field failure is kept as the cause.
	_, err := DecodePage[catalogItem]([]byte(`{"href":"https://x","items":[]}`))
	require.Error(t, err)
	require.True(t, gerror.IsMalformedResponse(err))
	require.Contains(t, err.Error(), "limit")
}

func TestPageDecodeMalformed(t *testing.T) {
	_, err := DecodePage[catalogItem]([]byte(`not json`))
	require.True(t, gerror.IsMalformedResponse(err))

	_, err = DecodePage[catalogItem]([]byte(`[1,2,3]`))
	require.True(t, gerror.IsMalformedResponse(err))

	// Type mismatches carry the best path the decoder can attribute.
	_, err = DecodePage[catalogItem]([]byte(`{"href":12,"items":[],"limit":5}`))
	require.True(t, gerror.IsMalformedResponse(err))
	require.Equal(t, "href", gerror.PathOf(err).String())

	// A wrapped value that is not an object at all.
	_, err = DecodePage[catalogItem]([]byte(`{"playlists":42}`))
	require.True(t, gerror.IsMalformedResponse(err))
	require.Equal(t, "playlists", gerror.PathOf(err).String())
}

func TestPageSequence(t *testing.T) {
	data := []byte(`{"href":"https://x/y","items":[{"id":"a"},{"id":"b"},{"id":"c"}],"limit":3}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)
	require.Equal(t, 3, page.Len())

	var forward []ID
	i := 0
	for {
		item, err := page.At(i)
		require.NoError(t, err)
		forward = append(forward, item.ID)
		next, err := page.Neighbor(i, DirectionNext)
		if err != nil {
			require.True(t, gerror.IsIndexOutOfRange(err))
			break
		}
		i = next
	}
	require.Equal(t, []ID{"a", "b", "c"}, forward)

	var backward []ID
	i = page.Len() - 1
	for {
		item, err := page.At(i)
		require.NoError(t, err)
		backward = append(backward, item.ID)
		previous, err := page.Neighbor(i, DirectionPrevious)
		if err != nil {
			require.True(t, gerror.IsIndexOutOfRange(err))
			break
		}
		i = previous
	}
	require.Equal(t, []ID{"c", "b", "a"}, backward)

	_, err = page.At(-1)
	require.True(t, gerror.IsIndexOutOfRange(err))
	_, err = page.At(page.Len())
	require.True(t, gerror.IsIndexOutOfRange(err))
	_, err = page.Neighbor(-1, DirectionNext)
	require.True(t, gerror.IsIndexOutOfRange(err))
	_, err = page.Neighbor(0, DirectionPrevious)
	require.True(t, gerror.IsIndexOutOfRange(err))
	_, err = page.Neighbor(2, DirectionNext)
	require.True(t, gerror.IsIndexOutOfRange(err))
}

func TestPageEach(t *testing.T) {
	data := []byte(`{"href":"https://x/y","items":[{"id":"a"},{"id":"b"},{"id":"c"}],"limit":3}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)

	var first []ID
	page.Each(func(i int, item catalogItem) bool {
		first = append(first, item.ID)
		return true
	})
	require.Equal(t, []ID{"a", "b", "c"}, first)

	// Traversal is restartable and repeatable.
	var second []ID
	page.Each(func(i int, item catalogItem) bool {
		second = append(second, item.ID)
		return true
	})
	require.Equal(t, first, second)

	var stopped []ID
	page.Each(func(i int, item catalogItem) bool {
		stopped = append(stopped, item.ID)
		return i == 0
	})
	require.Equal(t, []ID{"a", "b"}, stopped)
}

func TestPageItemsReturnsCopy(t *testing.T) {
	data := []byte(`{"href":"https://x/y","items":[{"id":"a"}],"limit":1}`)
	page, err := DecodePage[catalogItem](data)
	require.NoError(t, err)

	items := page.Items()
	items[0] = catalogItem{ID: "mutated"}
	fresh, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, ID("a"), fresh.ID)
}

func TestPageEmptyItems(t *testing.T) {
	page, err := DecodePage[catalogItem]([]byte(`{"href":"https://x/y","items":[],"limit":20,"total":0}`))
	require.NoError(t, err)
	require.Equal(t, 0, page.Len())
	require.Empty(t, page.Items())
	total, ok := page.Total()
	require.True(t, ok)
	require.Equal(t, 0, total)

	_, err = page.At(0)
	require.True(t, gerror.IsIndexOutOfRange(err))
}
