package easytrans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func TestParsePage(t *testing.T) {
	data := `{
		"data": [
			{"type":"product","id":1,"attributes":{"productNo":1,"name":"Same day"}},
			{"type":"product","id":2,"attributes":{"productNo":2,"name":"Next day"}}
		],
		"links": {"first":"https://x/api/v1/products?page=1","last":"https://x/api/v1/products?page=2","prev":null,"next":"https://x/api/v1/products?page=2"},
		"meta": {"current_page":1,"last_page":2,"per_page":2,"total":3,"from":1,"to":2}
	}`

	page, err := easytrans.ParsePage([]byte(data), easytrans.ParseRestProduct)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "Next day", page.Items[1].Name)
	assert.True(t, page.HasNext())
	assert.Empty(t, page.Links.Prev)
	assert.Equal(t, 2, page.Meta.LastPage)
	assert.Equal(t, 3, page.Meta.Total)
	require.NotNil(t, page.Meta.From)
	assert.Equal(t, 1, *page.Meta.From)
}

func TestParsePage_Defaults(t *testing.T) {
	page, err := easytrans.ParsePage([]byte(`{"data":[]}`), easytrans.ParseRestProduct)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext())
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Equal(t, 100, page.Meta.PerPage)
}

func TestParsePage_BadItem(t *testing.T) {
	_, err := easytrans.ParsePage([]byte(`{"data":[{"attributes":{}}]}`), easytrans.ParseRestProduct)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 0")
	assert.Equal(t, easytrans.KindValidation, easytrans.KindOf(err))
}

func TestParseItem(t *testing.T) {
	o, err := easytrans.ParseItem([]byte(`{"data":`+restOrderJSON+`}`), easytrans.ParseRestOrder)
	require.NoError(t, err)
	assert.Equal(t, 35558, o.Attributes.OrderNo)

	_, err = easytrans.ParseItem([]byte(`{"message":"ok"}`), easytrans.ParseRestOrder)
	require.Error(t, err)
	assert.Equal(t, easytrans.KindValidation, easytrans.KindOf(err))
}
