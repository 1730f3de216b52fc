package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestParsePartialUpdate_OnlyPresentFields(t *testing.T) {
	var pool fastjson.ParserPool

	fields, err := parsePartialUpdate(&pool, []byte(`{"description":"new","createdOn":null}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"description": "new",
		"createdOn":   nil,
	}, fields)
	assert.NotContains(t, fields, "groupName")
}

func TestParsePartialUpdate_StripsIDs(t *testing.T) {
	var pool fastjson.ParserPool

	fields, err := parsePartialUpdate(&pool, []byte(`{"_id":"abc","id":"abc","content":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"content": "hi"}, fields)
}

func TestParsePartialUpdate_ArraysReplaceWholesale(t *testing.T) {
	var pool fastjson.ParserPool

	fields, err := parsePartialUpdate(&pool, []byte(`{"members":["a","b"],"weight":2}`))
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b"}, fields["members"])
	assert.Equal(t, float64(2), fields["weight"])
}

func TestParsePartialUpdate_NestedObject(t *testing.T) {
	var pool fastjson.ParserPool

	fields, err := parsePartialUpdate(&pool, []byte(`{"location":{"latitude":1.5,"longitude":-2,"ok":true}}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"latitude":  1.5,
		"longitude": float64(-2),
		"ok":        true,
	}, fields["location"])
}

func TestParsePartialUpdate_Errors(t *testing.T) {
	var pool fastjson.ParserPool

	_, err := parsePartialUpdate(&pool, []byte(`{"broken`))
	assert.Error(t, err)

	_, err = parsePartialUpdate(&pool, []byte(`[1,2,3]`))
	assert.Error(t, err)

	_, err = parsePartialUpdate(&pool, []byte(`{}`))
	assert.ErrorIs(t, err, errNoFields)

	_, err = parsePartialUpdate(&pool, []byte(`{"_id":"only-an-id"}`))
	assert.ErrorIs(t, err, errNoFields)
}
