package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleDefaults(t *testing.T) {
	var st Style
	assert.Equal(t, "#000000", st.Get(SectionTitle, PropertyColor))
	assert.Equal(t, "24px", st.Get(SectionTitle, PropertySize))
	assert.Equal(t, "16px", st.Get(SectionContent, PropertySize))
	assert.Equal(t, "14px", st.Get(SectionFooter, PropertySize))
	assert.Equal(t, "left", st.Get(SectionContent, PropertyAlignment))
	assert.Equal(t, "center", st.Get(SectionFooter, PropertyAlignment))
	assert.Equal(t, "#ffffff", st.BackgroundColor())
}

func TestStyleSet_ChangesExactlyOneKey(t *testing.T) {
	var s Style
	s1, err := s.Set(SectionTitle, PropertyColor, "#fff")
	require.NoError(t, err)
	s2, err := s1.Set(SectionContent, PropertySize, "18px")
	require.NoError(t, err)

	before := s.Flatten()
	after := s2.Flatten()
	changed := map[string]bool{}
	for k, v := range after {
		if before[k] != v {
			changed[k] = true
		}
	}
	require.Equal(t, map[string]bool{"titleColor": true, "contentSize": true}, changed)
	require.Len(t, after, len(before))

	// earlier values are untouched
	_, ok := s.Lookup(SectionTitle, PropertyColor)
	require.False(t, ok)
	_, ok = s1.Lookup(SectionContent, PropertySize)
	require.False(t, ok)
}

func TestStyleSet_RejectsUnknown(t *testing.T) {
	var s Style
	_, err := s.Set(Section("sidebar"), PropertyColor, "#fff")
	require.ErrorIs(t, err, ErrUnknownSection)
	_, err = s.Set(SectionTitle, Property("Weight"), "bold")
	require.ErrorIs(t, err, ErrUnknownProperty)
}

func TestStyleSet_NoValueValidation(t *testing.T) {
	s, err := Style{}.Set(SectionTitle, PropertyColor, "not-a-color")
	require.NoError(t, err)
	require.Equal(t, "not-a-color", s.Get(SectionTitle, PropertyColor))
}

func TestStyleFlatten(t *testing.T) {
	s := Style{}.WithBackground("#eeeeee")
	flat := s.Flatten()
	require.Len(t, flat, 10)
	require.Equal(t, "#eeeeee", flat[BackgroundKey])
	require.Equal(t, "center", flat["footerAlignment"])
	_, hasImage := flat["imageColor"]
	require.False(t, hasImage)

	s, err := s.Set(SectionImage, PropertyAlignment, "right")
	require.NoError(t, err)
	require.Equal(t, "right", s.Flatten()["imageAlignment"])
}

func TestParseStyleKeyAndProperty(t *testing.T) {
	k, ok := ParseStyleKey("contentAlignment")
	require.True(t, ok)
	require.Equal(t, StyleKey{Section: SectionContent, Property: PropertyAlignment}, k)
	require.Equal(t, "contentAlignment", k.String())

	_, ok = ParseStyleKey("fontSize")
	require.False(t, ok)

	p, err := ParseProperty("size")
	require.NoError(t, err)
	require.Equal(t, PropertySize, p)
}

func TestStyleFromFlat_IgnoresUnknownKeys(t *testing.T) {
	s := StyleFromFlat(map[string]string{"titleColor": "#123456", "fontSize": "99px", BackgroundKey: "#000"})
	require.Equal(t, "#123456", s.Get(SectionTitle, PropertyColor))
	require.Equal(t, "#000", s.BackgroundColor())
	require.NotContains(t, s.Flatten(), "fontSize")
}

func TestStyleJSONKeepsDefaultsImplicit(t *testing.T) {
	s, err := Style{}.Set(SectionFooter, PropertyColor, "#333333")
	require.NoError(t, err)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"footerColor":"#333333"}`, string(b))

	var back Style
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, s.Flatten(), back.Flatten())
}
