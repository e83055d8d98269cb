package document

// Project flattens a document into its persisted shape. It is pure: ID and
// CreatedAt stay zero until a store saves the result.
//
// Only title, content and footer text reach config.variables; content held by
// any other section is dropped. The image section becomes config.images.
func Project(d Document) PersistedTemplate {
	name := d.Name
	if name == "" {
		name = UntitledName
	}
	images := []string{}
	if url := d.ContentOf(SectionImage); url != "" {
		images = append(images, url)
	}
	return PersistedTemplate{
		Name:   name,
		Layout: d.LayoutID,
		Config: Config{
			Variables: map[string]string{
				VarTitle:   d.ContentOf(SectionTitle),
				VarContent: d.ContentOf(SectionContent),
				VarFooter:  d.ContentOf(SectionFooter),
			},
			Images:   images,
			Styles:   d.Style.Flatten(),
			Sections: d.Order.Strings(),
		},
	}
}

// Hydrate reopens a saved template for editing.
func Hydrate(t PersistedTemplate) (Document, error) {
	d := New()
	d.Name = t.Name
	if t.Layout != "" {
		d.LayoutID = t.Layout
	}
	if len(t.Config.Sections) > 0 {
		o, err := ParseOrder(t.Config.Sections)
		if err != nil {
			return Document{}, err
		}
		d.Order = o
	}
	for _, key := range VariableKeys {
		if v, ok := t.Config.Variables[key]; ok {
			d.Content[Section(key)] = v
		}
	}
	if url, ok := t.ImageURL(); ok {
		d.Content[SectionImage] = url
	}
	d.Style = StyleFromFlat(t.Config.Styles)
	return d, nil
}

// Normalize prepares a client-built template for storage: it applies the
// default name and layout, drops variable and style keys outside the closed
// vocabulary, and validates the section order.
func Normalize(t PersistedTemplate) (PersistedTemplate, error) {
	out := PersistedTemplate{Name: t.Name, Layout: t.Layout}
	if out.Name == "" {
		out.Name = UntitledName
	}
	if out.Layout == "" {
		out.Layout = DefaultLayout
	}
	out.Config.Variables = make(map[string]string, len(VariableKeys))
	for _, k := range VariableKeys {
		if v, ok := t.Config.Variables[k]; ok {
			out.Config.Variables[k] = v
		}
	}
	out.Config.Images = []string{}
	for _, u := range t.Config.Images {
		if u != "" {
			out.Config.Images = append(out.Config.Images, u)
		}
	}
	out.Config.Styles = StyleFromFlat(t.Config.Styles).explicit()
	if len(t.Config.Sections) > 0 {
		o, err := ParseOrder(t.Config.Sections)
		if err != nil {
			return PersistedTemplate{}, err
		}
		out.Config.Sections = o.Strings()
	}
	return out, nil
}
