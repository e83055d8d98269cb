package document

import (
	"encoding/json"
	"strings"
)

// Section is one of the fixed content slots of an email document.
type Section string

const (
	SectionTitle   Section = "title"
	SectionImage   Section = "image"
	SectionContent Section = "content"
	SectionFooter  Section = "footer"
)

// Sections is the closed vocabulary, in the editor's default order.
var Sections = []Section{SectionTitle, SectionImage, SectionContent, SectionFooter}

// styledSections always get a full style tuple when flattened; they are the
// sections the layout skeletons reference.
var styledSections = []Section{SectionTitle, SectionContent, SectionFooter}

func (s Section) Valid() bool {
	switch s {
	case SectionTitle, SectionImage, SectionContent, SectionFooter:
		return true
	}
	return false
}

// ParseSection maps an identifier to a Section, rejecting anything outside the vocabulary.
func ParseSection(v string) (Section, error) {
	s := Section(strings.TrimSpace(v))
	if !s.Valid() {
		return "", invalid("section", ErrUnknownSection, "%q", v)
	}
	return s, nil
}

// Property is a presentation attribute carried per section.
type Property string

const (
	PropertyColor     Property = "Color"
	PropertySize      Property = "Size"
	PropertyAlignment Property = "Alignment"
)

var Properties = []Property{PropertyColor, PropertySize, PropertyAlignment}

func (p Property) Valid() bool {
	switch p {
	case PropertyColor, PropertySize, PropertyAlignment:
		return true
	}
	return false
}

// ParseProperty accepts "Color", "color", "COLOR" and so on.
func ParseProperty(v string) (Property, error) {
	for _, p := range Properties {
		if strings.EqualFold(string(p), strings.TrimSpace(v)) {
			return p, nil
		}
	}
	return "", invalid("property", ErrUnknownProperty, "%q", v)
}

// BackgroundKey is the flat key of the document-wide background color.
const BackgroundKey = "backgroundColor"

const (
	defaultColor      = "#000000"
	defaultSize       = "16px"
	defaultAlignment  = "left"
	defaultBackground = "#ffffff"
)

// StyleKey addresses one style attribute.
type StyleKey struct {
	Section  Section
	Property Property
}

// String returns the flat key, e.g. "titleColor".
func (k StyleKey) String() string {
	return string(k.Section) + string(k.Property)
}

// ParseStyleKey splits a flat key such as "footerAlignment".
func ParseStyleKey(flat string) (StyleKey, bool) {
	for _, s := range Sections {
		rest, ok := strings.CutPrefix(flat, string(s))
		if !ok {
			continue
		}
		for _, p := range Properties {
			if rest == string(p) {
				return StyleKey{Section: s, Property: p}, true
			}
		}
	}
	return StyleKey{}, false
}

// DefaultAttribute is the value used when a section has no explicit attribute.
func DefaultAttribute(s Section, p Property) string {
	switch p {
	case PropertySize:
		switch s {
		case SectionTitle:
			return "24px"
		case SectionFooter:
			return "14px"
		}
		return defaultSize
	case PropertyAlignment:
		if s == SectionFooter {
			return "center"
		}
		return defaultAlignment
	}
	return defaultColor
}

// Style is an immutable set of presentation attributes. The zero value is
// usable and resolves every attribute to its default.
//
// Values are not validated: a malformed color or size is stored and rendered as given.
type Style struct {
	attrs      map[StyleKey]string
	background *string
}

// Get returns the attribute or its default.
func (st Style) Get(s Section, p Property) string {
	if v, ok := st.attrs[StyleKey{Section: s, Property: p}]; ok {
		return v
	}
	return DefaultAttribute(s, p)
}

// Lookup returns the explicitly set attribute, if any.
func (st Style) Lookup(s Section, p Property) (string, bool) {
	v, ok := st.attrs[StyleKey{Section: s, Property: p}]
	return v, ok
}

// BackgroundColor returns the document background or #ffffff.
func (st Style) BackgroundColor() string {
	if st.background != nil {
		return *st.background
	}
	return defaultBackground
}

// Set returns a copy of st with one attribute changed.
func (st Style) Set(s Section, p Property, value string) (Style, error) {
	if !s.Valid() {
		return st, invalid("section", ErrUnknownSection, "%q", s)
	}
	if !p.Valid() {
		return st, invalid("property", ErrUnknownProperty, "%q", p)
	}
	out := Style{attrs: make(map[StyleKey]string, len(st.attrs)+1), background: st.background}
	for k, v := range st.attrs {
		out.attrs[k] = v
	}
	out.attrs[StyleKey{Section: s, Property: p}] = value
	return out, nil
}

// WithBackground returns a copy of st with the background color changed.
func (st Style) WithBackground(value string) Style {
	bg := value
	return Style{attrs: st.attrs, background: &bg}
}

// Flatten yields the string-keyed form stored in a template's config. Title,
// content and footer always get a complete tuple; image attributes appear only
// when set explicitly.
func (st Style) Flatten() map[string]string {
	out := make(map[string]string, len(styledSections)*len(Properties)+1)
	for _, s := range styledSections {
		for _, p := range Properties {
			out[StyleKey{Section: s, Property: p}.String()] = st.Get(s, p)
		}
	}
	for k, v := range st.attrs {
		out[k.String()] = v
	}
	out[BackgroundKey] = st.BackgroundColor()
	return out
}

// StyleFromFlat rebuilds a Style from its flattened form. Keys outside the
// closed vocabulary are ignored.
func StyleFromFlat(flat map[string]string) Style {
	st := Style{attrs: make(map[StyleKey]string, len(flat))}
	for k, v := range flat {
		if k == BackgroundKey {
			bg := v
			st.background = &bg
			continue
		}
		if key, ok := ParseStyleKey(k); ok {
			st.attrs[key] = v
		}
	}
	return st
}

// explicit returns only the attributes that were set, in flat form.
func (st Style) explicit() map[string]string {
	out := make(map[string]string, len(st.attrs)+1)
	for k, v := range st.attrs {
		out[k.String()] = v
	}
	if st.background != nil {
		out[BackgroundKey] = *st.background
	}
	return out
}

// MarshalJSON stores explicit attributes only, so defaults stay defaults.
func (st Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(st.explicit())
}

func (st *Style) UnmarshalJSON(b []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	*st = StyleFromFlat(flat)
	return nil
}
