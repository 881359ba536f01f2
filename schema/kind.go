package schema

import "strings"

// Kind, bir sonuç kolonunun okuma tarafındaki doğal temsilidir.
type Kind int

const (
	KindOpaque Kind = iota
	KindInteger
	KindFloat
	KindText
	KindTemporal
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTemporal:
		return "temporal"
	}
	return "opaque"
}

// Numeric, Integer ve Float için true döner.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindFloat
}

// MySQL client/server protokolündeki kolon tipi kodları.
const (
	codeTiny       = 1
	codeShort      = 2
	codeLong       = 3
	codeFloat      = 4
	codeDouble     = 5
	codeTimestamp  = 7
	codeLongLong   = 8
	codeInt24      = 9
	codeDate       = 10
	codeTime       = 11
	codeDateTime   = 12
	codeYear       = 13
	codeBit        = 16
	codeNewDecimal = 246
	codeBlob       = 252
	codeVarString  = 253
	codeString     = 254
)

// KindOfCode, protokol seviyesindeki tip kodunu Kind'a çevirir. Tanınmayan
// kodlar (DECIMAL=0, JSON, GEOMETRY, NULL ...) Opaque'tır.
func KindOfCode(code byte) Kind {
	switch code {
	case codeTiny, codeShort, codeLong, codeLongLong, codeInt24, codeBit:
		return KindInteger
	case codeFloat, codeDouble, codeNewDecimal:
		return KindFloat
	case codeTimestamp, codeDate, codeTime, codeDateTime, codeYear:
		return KindTemporal
	case codeBlob, codeVarString, codeString:
		return KindText
	}
	return KindOpaque
}

// typeCodes, sürücünün ColumnType.DatabaseTypeName() değerlerini protokol
// tip kodlarına eşler. go-sql-driver/mysql kodu değil adı dışarı verdiği için
// okuma yolu adı koda çevirip KindOfCode'a gider; sınıflandırma tek yerdedir.
var typeCodes = map[string]byte{
	"TINYINT":   codeTiny,
	"SMALLINT":  codeShort,
	"MEDIUMINT": codeInt24,
	"INT":       codeLong,
	"INTEGER":   codeLong,
	"BIGINT":    codeLongLong,
	"BIT":       codeBit,

	"FLOAT":   codeFloat,
	"DOUBLE":  codeDouble,
	"DECIMAL": codeNewDecimal,

	"DATE":      codeDate,
	"DATETIME":  codeDateTime,
	"TIMESTAMP": codeTimestamp,
	"TIME":      codeTime,
	"YEAR":      codeYear,

	"CHAR":       codeString,
	"VARCHAR":    codeVarString,
	"TINYTEXT":   codeBlob,
	"TEXT":       codeBlob,
	"MEDIUMTEXT": codeBlob,
	"LONGTEXT":   codeBlob,
	"TINYBLOB":   codeBlob,
	"BLOB":       codeBlob,
	"MEDIUMBLOB": codeBlob,
	"LONGBLOB":   codeBlob,
	"BINARY":     codeString,
	"VARBINARY":  codeVarString,
	"ENUM":       codeString,
	"SET":        codeString,
}

// KindOfTypeName, sürücünün bildirdiği tip adını ("INT", "UNSIGNED BIGINT",
// "VARCHAR", "DECIMAL" ...) Kind'a çevirir.
func KindOfTypeName(name string) Kind {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "UNSIGNED ")
	code, ok := typeCodes[name]
	if !ok {
		return KindOpaque
	}
	return KindOfCode(code)
}

// KindOfDeclared, katalogdaki tanımlı tipi ("int(11) unsigned", "decimal(10,2)",
// "enum('a','b')") Kind'a çevirir.
func KindOfDeclared(declared string) Kind {
	base := declared
	if i := strings.IndexAny(base, "( "); i >= 0 {
		base = base[:i]
	}
	return KindOfTypeName(base)
}
