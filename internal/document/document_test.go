package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentSettersTouchOnlyTheirField(t *testing.T) {
	d := New()

	named := d.WithName("Welcome")
	require.Equal(t, "", d.Name)
	require.Equal(t, "Welcome", named.Name)
	require.Equal(t, d.Order, named.Order)

	withText, err := named.WithContent(SectionTitle, "Hi")
	require.NoError(t, err)
	require.Empty(t, named.Content)
	require.Equal(t, "Hi", withText.ContentOf(SectionTitle))
	require.Equal(t, DefaultOrder(), withText.Order)

	styled, err := withText.WithStyle(SectionTitle, PropertyColor, "#ff0000")
	require.NoError(t, err)
	require.Equal(t, "#000000", withText.Style.Get(SectionTitle, PropertyColor))
	require.Equal(t, "#ff0000", styled.Style.Get(SectionTitle, PropertyColor))
	require.Equal(t, withText.Content, styled.Content)
	require.Equal(t, DefaultOrder(), styled.Order)

	moved, err := styled.MoveSection(0, 2)
	require.NoError(t, err)
	require.Equal(t, DefaultOrder(), styled.Order)
	require.Equal(t, Order{SectionImage, SectionContent, SectionTitle, SectionFooter}, moved.Order)
	require.Equal(t, styled.Style, moved.Style)

	bg := moved.WithBackground("#fafafa")
	require.Equal(t, "#ffffff", moved.Style.BackgroundColor())
	require.Equal(t, "#fafafa", bg.Style.BackgroundColor())
	require.Equal(t, "#ff0000", bg.Style.Get(SectionTitle, PropertyColor))
}

func TestDocumentRejectsUnknownSection(t *testing.T) {
	d := New()
	_, err := d.WithContent(Section("sidebar"), "x")
	require.ErrorIs(t, err, ErrUnknownSection)
	_, err = d.MoveSection(0, 9)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.Equal(t, DefaultOrder(), d.Order)
}

func TestDocumentJSON(t *testing.T) {
	d, err := New().WithName("n").WithContent(SectionFooter, "bye")
	require.NoError(t, err)
	d, err = d.MoveSection(3, 0)
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(b, &back))
	require.NoError(t, back.Validate())
	require.Equal(t, d.Order, back.Order)
	require.Equal(t, d.Content, back.Content)
	require.Equal(t, d.Name, back.Name)

	var bad Document
	require.Error(t, json.Unmarshal([]byte(`{"sections":["title","title"]}`), &bad))
}
