package csvfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Basic(t *testing.T) {
	input := "Agent,Category,Created\nAnn,Billing,2024-01-01\nBob,Login,2024-01-02\n"
	ds, err := Read(strings.NewReader(input), "tickets.csv", Options{})
	require.NoError(t, err)

	assert.Equal(t, "tickets.csv", ds.Name)
	assert.Equal(t, []string{"Agent", "Category", "Created"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Ann", ds.Rows[0]["Agent"])
	assert.Equal(t, "2024-01-02", ds.Rows[1]["Created"])
}

func TestRead_SniffsSemicolon(t *testing.T) {
	input := "Agent;Category\nAnn;Billing\n"
	ds, err := Read(strings.NewReader(input), "t.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Agent", "Category"}, ds.Columns)
	assert.Equal(t, "Billing", ds.Rows[0]["Category"])
}

func TestRead_SniffsTab(t *testing.T) {
	input := "Agent\tCategory\nAnn\tBilling\n"
	ds, err := Read(strings.NewReader(input), "t.tsv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Agent", "Category"}, ds.Columns)
}

func TestRead_ShortAndLongRows(t *testing.T) {
	input := "A,B\n1\n2,3,4\n"
	ds, err := Read(strings.NewReader(input), "t.csv", Options{})
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	_, hasB := ds.Rows[0]["B"]
	assert.False(t, hasB, "short row must leave missing cells absent")
	assert.Len(t, ds.Rows[1], 2, "cells beyond the header are dropped")
}

func TestRead_EmptyInput(t *testing.T) {
	ds, err := Read(strings.NewReader(""), "t.csv", Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Columns)
	assert.Empty(t, ds.Rows)
}

func TestRead_BlankHeader(t *testing.T) {
	ds, err := Read(strings.NewReader(",,\nx,y,z\n"), "t.csv", Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Columns)
}

func TestRead_MaxRows(t *testing.T) {
	input := "A\n1\n2\n3\n4\n"
	ds, err := Read(strings.NewReader(input), "t.csv", Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 2)
}

func TestRead_QuotedFields(t *testing.T) {
	input := "A,B\n\"hello, world\",2\n"
	ds, err := Read(strings.NewReader(input), "t.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, "hello, world", ds.Rows[0]["A"])
}
