package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"maps"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// OpenAttribute holds either a scalar string value or a blob with a file name.
// IsBlob tells which one is set
type OpenAttribute struct {
	IsBlob   bool   `json:"IsBlob,omitempty" yaml:"IsBlob,omitempty"`
	Value    string `json:"Value,omitempty" yaml:"Value,omitempty"`
	Blob     []byte `json:"Blob,omitempty" yaml:"Blob,omitempty"`
	Filename string `json:"Filename,omitempty" yaml:"Filename,omitempty"`
}

func ScalarValue(value string) OpenAttribute {
	return OpenAttribute{Value: value}
}

func BlobValue(data []byte, filename string) OpenAttribute {
	return OpenAttribute{
		IsBlob:   true,
		Blob:     data,
		Filename: filename,
	}
}

// OAMap is a set of named open attributes attached to an entity
type OAMap map[string]OpenAttribute

// GetStr returns scalar value of the attribute. Blob attributes are reported as missing
func (m OAMap) GetStr(name string) (string, bool) {
	attr, ok := m[name]
	if !ok || attr.IsBlob {
		return "", false
	}
	return attr.Value, true
}

func (m *OAMap) SetStr(name string, value string) {
	if *m == nil {
		*m = make(OAMap)
	}
	(*m)[name] = ScalarValue(value)
}

func (m *OAMap) SetInt(name string, value int) {
	m.SetStr(name, strconv.Itoa(value))
}

func (m *OAMap) SetBlob(name string, data []byte, filename string) {
	if *m == nil {
		*m = make(OAMap)
	}
	(*m)[name] = BlobValue(data, filename)
}

// Merge copies all attributes from other, replacing existing ones
func (m *OAMap) Merge(other OAMap) {
	if len(other) == 0 {
		return
	}
	if *m == nil {
		*m = make(OAMap, len(other))
	}
	maps.Copy(*m, other)
}

func (m OAMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *OAMap) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed while scanning OAMap")
	}
	return json.Unmarshal(bytes, m)
}

func (m OAMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "sqlite":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}
