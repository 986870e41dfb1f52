package mapping

import (
	"encoding/xml"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format decodes a mapping file into per-class mappings.
type Format interface {
	Name() string
	decode(data []byte) (map[string]classMapping, error)
}

// YAMLFormat reads documents keyed by class name:
//
//	app.model.User:
//	  table: users
//	  id: [id]
//	  fields:
//	    id: {type: integer}
//	    email: {type: string, length: 255, unique: true}
type YAMLFormat struct{}

func (YAMLFormat) Name() string { return "yaml" }

func (YAMLFormat) decode(data []byte) (map[string]classMapping, error) {
	var out map[string]classMapping
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	return out, nil
}

// JSONFormat reads the same shape as YAMLFormat.
type JSONFormat struct{}

func (JSONFormat) Name() string { return "json" }

func (JSONFormat) decode(data []byte) (map[string]classMapping, error) {
	var out map[string]classMapping
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	return out, nil
}

// TOMLFormat reads one table per class. Class names containing dots must be quoted.
type TOMLFormat struct{}

func (TOMLFormat) Name() string { return "toml" }

func (TOMLFormat) decode(data []byte) (map[string]classMapping, error) {
	var out map[string]classMapping
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	return out, nil
}

// XMLFormat reads documents of the form:
//
//	<orm-mapping>
//	  <entity name="app.model.User" table="users">
//	    <id name="id" type="integer"/>
//	    <field name="email" type="string" length="255" unique="true"/>
//	  </entity>
//	</orm-mapping>
type XMLFormat struct{}

func (XMLFormat) Name() string { return "xml" }

type xmlDocument struct {
	XMLName  xml.Name    `xml:"orm-mapping"`
	Entities []xmlEntity `xml:"entity"`
}

type xmlEntity struct {
	Name   string     `xml:"name,attr"`
	Table  string     `xml:"table,attr"`
	IDs    []xmlField `xml:"id"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name     string `xml:"name,attr"`
	Column   string `xml:"column,attr"`
	Type     string `xml:"type,attr"`
	Length   int    `xml:"length,attr"`
	Nullable bool   `xml:"nullable,attr"`
	Unique   bool   `xml:"unique,attr"`
}

func (f xmlField) mapping() fieldMapping {
	return fieldMapping{
		Column:   f.Column,
		Type:     f.Type,
		Length:   f.Length,
		Nullable: f.Nullable,
		Unique:   f.Unique,
	}
}

func (XMLFormat) decode(data []byte) (map[string]classMapping, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}

	out := make(map[string]classMapping, len(doc.Entities))
	for _, e := range doc.Entities {
		cm := classMapping{
			Table:  e.Table,
			Fields: make(map[string]fieldMapping, len(e.IDs)+len(e.Fields)),
		}
		for _, id := range e.IDs {
			cm.ID = append(cm.ID, id.Name)
			cm.Fields[id.Name] = id.mapping()
		}
		for _, f := range e.Fields {
			cm.Fields[f.Name] = f.mapping()
		}
		out[e.Name] = cm
	}
	return out, nil
}
