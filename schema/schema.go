// Package schema, tabloların canlı katalogdan okunan kolon tanımlarını ve bu
// tanımlardan türeyen yazma politikasını (tırnaklı literal, çıplak sayı, NULL)
// içerir. Okuma tarafındaki tip sınıflandırması da (Kind) buradadır.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTableNotFound, katalogda karşılığı olmayan bir tablo için döner.
	ErrTableNotFound = errors.New("schema: table not found")

	// ErrUnknownColumn, tabloda olmayan bir kolona yazılmak istendiğinde döner.
	ErrUnknownColumn = errors.New("schema: unknown column")

	// ErrBind, bir değerin kolon politikasına göre bağlanamadığını belirtir.
	ErrBind = errors.New("schema: value cannot be bound")
)

// quotedTypes, tanımlı tipinde bu alt dizgilerden biri geçen kolonlara
// yazılan değerler tırnaklı literal olarak gider. Eşleşme büyük/küçük harf duyarlıdır.
var quotedTypes = []string{"enum", "varchar", "text", "tinytext", "date"}

// Column, DESCRIBE çıktısındaki tek bir satırdır.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Key      string
	Default  *string
	Extra    string
}

// Quoted, kolonun değerlerinin tırnaklı literal olarak yazılıp yazılmayacağını döndürür.
// Diğer bütün tipler yazma açısından sayısaldır.
func (c Column) Quoted() bool {
	for _, t := range quotedTypes {
		if strings.Contains(c.Type, t) {
			return true
		}
	}
	return false
}

// Kind, tanımlı tipin okuma tarafındaki sınıfıdır.
func (c Column) Kind() Kind {
	return KindOfDeclared(c.Type)
}

// Bind, v değerini kolonun yazma politikasına göre sürücüye gidecek değere çevirir.
//
//   - nil ve nullable kolon: NULL
//   - nil ve tırnaklı, nullable olmayan kolon: boş string
//   - tırnaklı kolon: her değer string'e çevrilir ("12345" -> '12345')
//   - sayısal kolon: int64 ya da float64; boş string nil gibi davranır
func (c Column) Bind(v any) (any, error) {
	if s, ok := v.(string); ok && s == "" && !c.Quoted() {
		v = nil
	}

	if isNil(v) {
		switch {
		case c.Nullable:
			return nil, nil
		case c.Quoted():
			return "", nil
		}
		return nil, &BindError{Column: c.Name, Type: c.Type, Value: v, Reason: "column is not nullable"}
	}

	if c.Quoted() {
		return c.text(v), nil
	}
	return c.number(v)
}

func (c Column) text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		if c.Type == "date" {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(deref(v))
}

func (c Column) number(v any) (any, error) {
	v = deref(v)
	switch x := v.(type) {
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case json.Number:
		return c.parse(x.String())
	case string:
		return c.parse(x)
	case []byte:
		return c.parse(string(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, &BindError{Column: c.Name, Type: c.Type, Value: v, Reason: "unsigned value overflows int64"}
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &BindError{Column: c.Name, Type: c.Type, Value: v, Reason: "value is not a finite number"}
		}
		return f, nil
	}

	return nil, &BindError{Column: c.Name, Type: c.Type, Value: v, Reason: "value is not numeric"}
}

func (c Column) parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &BindError{Column: c.Name, Type: c.Type, Value: s, Reason: "value is not numeric"}
	}
	return f, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Interface()
}

// Table, bir tablonun sıralı kolon tanımlarıdır. Inspector tarafından paylaşılır;
// değiştirilmemelidir.
type Table struct {
	Name    string
	Columns []Column

	index map[string]int
}

// NewTable, kolonları verilen sırayla tutan bir Table oluşturur.
func NewTable(name string, columns []Column) *Table {
	t := &Table{Name: name, Columns: columns, index: make(map[string]int, len(columns))}
	for i, c := range columns {
		t.index[c.Name] = i
	}
	return t
}

// Column, isme göre kolon tanımını döndürür.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// Names, kolon adlarını katalog sırasıyla döndürür.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Bind, data içindeki her değeri ilgili kolonun politikasıyla bağlar.
func (t *Table) Bind(data map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(data))
	for key, v := range data {
		col, ok := t.Column(key)
		if !ok {
			return nil, fmt.Errorf("%w %q in table %q", ErrUnknownColumn, key, t.Name)
		}
		b, err := col.Bind(v)
		if err != nil {
			return nil, err
		}
		bound[key] = b
	}
	return bound, nil
}

// BindError, bir değerin kolonuna bağlanamama nedenini taşır.
type BindError struct {
	Column string
	Type   string
	Value  any
	Reason string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("schema: cannot bind %v to column %q (%s): %s", e.Value, e.Column, e.Type, e.Reason)
}

// Is, errors.Is(err, ErrBind) kontrolünü destekler.
func (e *BindError) Is(target error) bool {
	return target == ErrBind
}
