package document

// DefaultLayout is the skeleton a new document renders against.
const DefaultLayout = "default.html"

// Document is the live editing aggregate. Treat it as a value: every setter
// returns a new Document and leaves the receiver untouched.
type Document struct {
	Name     string             `json:"name"`
	LayoutID string             `json:"layout"`
	Order    Order              `json:"sections"`
	Content  map[Section]string `json:"content"`
	Style    Style              `json:"style"`
}

// New returns the document the editor starts from.
func New() Document {
	return Document{
		LayoutID: DefaultLayout,
		Order:    DefaultOrder(),
		Content:  map[Section]string{},
	}
}

// ContentOf returns the text (or image URL) of a section, "" when absent.
func (d Document) ContentOf(s Section) string {
	return d.Content[s]
}

func (d Document) WithName(name string) Document {
	d.Name = name
	return d
}

func (d Document) WithLayout(layoutID string) Document {
	d.LayoutID = layoutID
	return d
}

// WithContent sets the text of one section. The image section holds a URL.
func (d Document) WithContent(s Section, text string) (Document, error) {
	if !s.Valid() {
		return d, invalid("section", ErrUnknownSection, "%q", s)
	}
	content := make(map[Section]string, len(d.Content)+1)
	for k, v := range d.Content {
		content[k] = v
	}
	content[s] = text
	d.Content = content
	return d, nil
}

func (d Document) WithStyle(s Section, p Property, value string) (Document, error) {
	st, err := d.Style.Set(s, p, value)
	if err != nil {
		return d, err
	}
	d.Style = st
	return d, nil
}

func (d Document) WithBackground(value string) Document {
	d.Style = d.Style.WithBackground(value)
	return d
}

// MoveSection reorders sections; see Order.Move.
func (d Document) MoveSection(from, to int) (Document, error) {
	o, err := d.Order.Move(from, to)
	if err != nil {
		return d, err
	}
	d.Order = o
	return d, nil
}

// Validate checks the invariants a decoded document may have lost.
func (d Document) Validate() error {
	if _, err := NewOrder(d.Order...); err != nil {
		return err
	}
	for s := range d.Content {
		if !s.Valid() {
			return invalid("content", ErrUnknownSection, "%q", s)
		}
	}
	return nil
}
