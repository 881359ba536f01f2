package labsql

import (
	"database/sql"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/memobit/labsql/schema"
)

// Okuma yolu: sonuç kümesinin kolon tipleri (ColumnTypes) her kolon için bir
// schema.Kind'a çevrilir ve hücreler bu Kind'a göre doğal Go değerlerine
// dönüştürülür. Hedef tablonun tanımı burada kullanılmaz; yazma politikası ile
// okuma dönüşümü birbirinden bağımsızdır.

// Coerce, ham bir hücreyi kolonun Kind'ına göre dönüştürür.
//
//   - nil her zaman nil kalır
//   - Integer ve Float: "7" -> int64(7), "12.50" -> float64(12.5)
//   - Text ve Temporal: string
//   - Opaque: olduğu gibi (byte dilimleri string olarak)
func Coerce(raw any, kind schema.Kind) any {
	if raw == nil {
		return nil
	}

	if kind.Numeric() {
		return coerceNumber(raw)
	}

	switch x := raw.(type) {
	case []byte:
		return string(x)
	case time.Time:
		if kind == schema.KindTemporal {
			return x.Format(time.DateTime)
		}
	}
	return raw
}

func coerceNumber(raw any) any {
	switch x := raw.(type) {
	case int64, float64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return x
	case float32:
		return float64(x)
	case []byte:
		if n, ok := parseNumber(string(x)); ok {
			return n
		}
		// BIT kolonları metin protokolünde ham big-endian byte olarak gelir.
		if len(x) > 0 && len(x) <= 8 {
			buf := make([]byte, 8)
			copy(buf[8-len(x):], x)
			return int64(binary.BigEndian.Uint64(buf))
		}
		return string(x)
	case string:
		if n, ok := parseNumber(x); ok {
			return n
		}
		return x
	}
	return raw
}

func parseNumber(s string) (any, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

// CoerceRow, values içindeki her hücreyi aynı sıradaki Kind ile dönüştürür.
// values yerinde değiştirilir.
func CoerceRow(values []any, kinds []schema.Kind) {
	for i := range values {
		kind := schema.KindOpaque
		if i < len(kinds) {
			kind = kinds[i]
		}
		values[i] = Coerce(values[i], kind)
	}
}

// raw, dönüştürülmemiş bir hücreyi yalnızca taşınabilir hale getirir.
func raw(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// columnKinds, sonuç kümesinin kolon adlarını ve Kind'larını döndürür.
func columnKinds(rows *sql.Rows) ([]string, []schema.Kind, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(types))
	kinds := make([]schema.Kind, len(types))
	for i, ct := range types {
		names[i] = ct.Name()
		kinds[i] = schema.KindOfTypeName(ct.DatabaseTypeName())
	}
	return names, kinds, nil
}

// scanRows, rows'u en fazla limit satır olacak şekilde okur (limit <= 0 sınırsız).
// coerce false ise hücreler ham bırakılır.
func scanRows(rows *sql.Rows, coerce bool, limit int) ([]Row, error) {
	names, kinds, err := columnKinds(rows)
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(names))
		dests := make([]any, len(names))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}

		if coerce {
			CoerceRow(values, kinds)
		} else {
			for i := range values {
				values[i] = raw(values[i])
			}
		}

		result = append(result, Row{columns: names, values: values})
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
