package document

import "time"

// UntitledName is stored when a document is saved without a name.
const UntitledName = "Untitled Template"

// Variable keys populated by the projection. Rendering only looks at these.
const (
	VarTitle   = "title"
	VarContent = "content"
	VarFooter  = "footer"
)

// VariableKeys is the closed set of config.variables keys.
var VariableKeys = []string{VarTitle, VarContent, VarFooter}

// Config is the flattened, persisted form of a document's content and style.
type Config struct {
	Variables map[string]string `json:"variables" bson:"variables"`
	Images    []string          `json:"images" bson:"images"`
	Styles    map[string]string `json:"styles" bson:"styles"`
	// Sections is the saved section order. Records written before it existed
	// reopen with DefaultOrder.
	Sections []string `json:"sections,omitempty" bson:"sections,omitempty"`
}

// PersistedTemplate is the durable record of a saved document. ID and
// CreatedAt are assigned by the store on save and never change afterwards.
type PersistedTemplate struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Layout    string    `json:"layout" bson:"layout"`
	Config    Config    `json:"config" bson:"config"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Filename is the suggested download name of the rendered template.
func (t *PersistedTemplate) Filename() string {
	name := t.Name
	if name == "" {
		name = UntitledName
	}
	return name + ".html"
}

// ImageURL returns images[0] when present.
func (t *PersistedTemplate) ImageURL() (string, bool) {
	if len(t.Config.Images) == 0 {
		return "", false
	}
	return t.Config.Images[0], true
}
