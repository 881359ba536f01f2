package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Escape, bir string'i tek veya çift tırnaklı SQL literali içine gömülebilecek
// hale getirir: tırnaklar, ters bölü ve NUL karakteri ters bölü ile kaçırılır.
func Escape(s string) string {
	if !strings.ContainsAny(s, "'\"\\\x00") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case 0:
			b.WriteString(`\0`)
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Literal, bir Go değerini SQL literaline çevirir. nil -> NULL, sayılar çıplak,
// diğer her şey tırnaklı ve kaçırılmış.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + Escape(x) + "'"
	case []byte:
		if x == nil {
			return "NULL"
		}
		return "'" + Escape(string(x)) + "'"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return "'" + x.Format("2006-01-02 15:04:05.999999") + "'"
	case fmt.Stringer:
		return "'" + Escape(x.String()) + "'"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL"
		}
		return Literal(rv.Elem().Interface())
	}

	return "'" + Escape(fmt.Sprint(v)) + "'"
}

// Interpolate, SQL metnindeki "?" yer tutucularını sırasıyla Literal(args[i]) ile
// değiştirir. Tırnaklı bölgelerdeki soru işaretlerine dokunulmaz.
func Interpolate(sql string, args []any) string {
	if len(args) == 0 {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 16*len(args))

	var quote byte
	next := 0
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && quote != '`' && i+1 < len(sql) {
				i++
				b.WriteByte(sql[i])
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '?' && next < len(args):
			b.WriteString(Literal(args[next]))
			next++
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
