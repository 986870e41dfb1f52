package mapping

import "sort"

// FieldMapping describes how one field maps to a column.
type FieldMapping struct {
	Name     string `json:"name"`
	Column   string `json:"column"`
	Type     string `json:"type"`
	Length   int    `json:"length,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
	ID       bool   `json:"id,omitempty"`
}

// ClassMetadata is the persistence mapping of one class.
type ClassMetadata struct {
	Name       string         `json:"name"`
	Table      string         `json:"table"`
	Identifier []string       `json:"identifier"`
	Fields     []FieldMapping `json:"fields"`
}

// NewClassMetadata returns empty metadata for className.
func NewClassMetadata(className string) *ClassMetadata {
	return &ClassMetadata{Name: className}
}

// MapField adds or replaces a field mapping.
func (m *ClassMetadata) MapField(f FieldMapping) {
	if f.Column == "" {
		f.Column = f.Name
	}
	for i := range m.Fields {
		if m.Fields[i].Name == f.Name {
			m.Fields[i] = f
			m.syncIdentifier()
			return
		}
	}
	m.Fields = append(m.Fields, f)
	m.syncIdentifier()
}

// Field returns the mapping for a field name.
func (m *ClassMetadata) Field(name string) (FieldMapping, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldMapping{}, false
}

// FieldNames returns the mapped field names in declaration order.
func (m *ClassMetadata) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

func (m *ClassMetadata) syncIdentifier() {
	m.Identifier = m.Identifier[:0]
	for _, f := range m.Fields {
		if f.ID {
			m.Identifier = append(m.Identifier, f.Name)
		}
	}
}

// classMapping is the document shape shared by the file formats: one
// entry per class, keyed by class name.
type classMapping struct {
	Table  string                  `yaml:"table" json:"table" toml:"table"`
	ID     []string                `yaml:"id" json:"id" toml:"id"`
	Fields map[string]fieldMapping `yaml:"fields" json:"fields" toml:"fields"`
}

type fieldMapping struct {
	Column   string `yaml:"column" json:"column" toml:"column"`
	Type     string `yaml:"type" json:"type" toml:"type"`
	Length   int    `yaml:"length" json:"length" toml:"length"`
	Nullable bool   `yaml:"nullable" json:"nullable" toml:"nullable"`
	Unique   bool   `yaml:"unique" json:"unique" toml:"unique"`
}

// apply copies the mapping into md. Fields are added identifiers first,
// then the rest sorted by name.
func (c classMapping) apply(className string, md *ClassMetadata) {
	md.Name = className
	md.Table = c.Table
	md.Fields = nil
	md.Identifier = nil

	ids := make(map[string]bool, len(c.ID))
	for _, id := range c.ID {
		ids[id] = true
		f := c.Fields[id]
		md.MapField(FieldMapping{
			Name:     id,
			Column:   f.Column,
			Type:     f.Type,
			Length:   f.Length,
			Nullable: f.Nullable,
			Unique:   f.Unique,
			ID:       true,
		})
	}

	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		if !ids[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		f := c.Fields[name]
		md.MapField(FieldMapping{
			Name:     name,
			Column:   f.Column,
			Type:     f.Type,
			Length:   f.Length,
			Nullable: f.Nullable,
			Unique:   f.Unique,
		})
	}
}
