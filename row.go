package labsql

import (
	"bytes"
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// Row, sonuç kümesinden okunmuş tek bir satırdır: kolon adlarından değerlere
// sıralı bir eşleme. Aynı isim birden fazla kez geçerse (JOIN) son değer geçerlidir
// ve isim ilk geçtiği konumda kalır.
type Row struct {
	columns []string
	values  []any
}

// NewRow, kolonları ve değerleri aynı sırayla eşleyen bir Row oluşturur.
func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

// Columns, kolon adlarını sonuç kümesindeki sırayla döndürür.
func (r Row) Columns() []string {
	return r.columns
}

// Values, hücreleri kolon sırasıyla döndürür.
func (r Row) Values() []any {
	return r.values
}

// Len, kolon sayısıdır.
func (r Row) Len() int {
	return len(r.columns)
}

// Get, kolonun değerini döndürür.
func (r Row) Get(column string) (any, bool) {
	for i := len(r.columns) - 1; i >= 0; i-- {
		if r.columns[i] == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// Value, Get'in tek dönüşlü halidir; kolon yoksa nil döner.
func (r Row) Value(column string) any {
	v, _ := r.Get(column)
	return v
}

// Map, satırı bir map'e kopyalar. Sıra bilgisi kaybolur.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// keys, tekrarlanan isimleri ilk konumlarında bırakarak sıralı kolon listesini döndürür.
func (r Row) keys() []string {
	seen := make(map[string]bool, len(r.columns))
	keys := make([]string, 0, len(r.columns))
	for _, c := range r.columns {
		if !seen[c] {
			seen[c] = true
			keys = append(keys, c)
		}
	}
	return keys
}

// MarshalJSON, satırı kolon sırasını koruyarak bir JSON nesnesi olarak yazar.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Value(key))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode, satırı dest'e (struct pointer) "db" etiketlerine göre yazar.
// Sayısal hücreler string alanlara, string hücreler sayısal alanlara zayıf
// tiplemeyle dönüştürülür.
func (r Row) Decode(dest any) error {
	return decode(r.Map(), dest)
}

// DecodeRows, rows'u dest'e (struct dilimi pointer'ı) yazar.
func DecodeRows(rows []Row, dest any) error {
	maps := make([]map[string]any, len(rows))
	for i, r := range rows {
		maps[i] = r.Map()
	}
	return decode(maps, dest)
}

func decode(input, dest any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		Result:           dest,
	})
	if err != nil {
		return WrapError("decode", err)
	}
	if err := dec.Decode(input); err != nil {
		return WrapError("decode", err)
	}
	return nil
}
