// Package dialect, builder tarafından biriktirilen sorgu parçalarını (kolonlar,
// JOIN'ler, predikatlar, sıralama) çalıştırılabilir SQL metnine ve bağlama
// argümanlarına derler.
//
// Değerler her zaman "?" yer tutucusu ile bağlanır. Tablo ve kolon isimleri
// internal/validation beyaz listesinden geçer; operatörler de öyle. Tek bilinçli
// kaçış kapısı Raw predikatıdır.
package dialect

// ----------------------------------------------------------------------------
// QueryBuilder Interface (import döngüsünü kırmak için)
// ----------------------------------------------------------------------------

// QueryBuilder, Grammar implementasyonlarının sorgu durumunu okumak için
// ihtiyaç duyduğu arayüzdür. Kök paketteki Builder bunu sağlar.
type QueryBuilder interface {
	GetTable() string
	GetColumns() []string
	GetWheres() []WhereClause
	GetOrders() []OrderClause
	GetJoins() []JoinClause
	GetGroupBy() []string
	GetLimit() *int
	IsIgnoreInsert() bool
}

// Grammar, sorgu bileşenlerini veritabanına özgü SQL ifadelerine çevirir.
type Grammar interface {
	// Name, gramerin kimliğini döndürür (örn. "mysql").
	Name() string

	// Wrap, bir kolon referansını tırnaklar. "t.col" ve "t.col AS alias" desteklenir.
	Wrap(identifier string) (string, error)

	// WrapTable, tablo adını ve varsa alias'ını tırnaklar.
	WrapTable(table string) (string, error)

	// Placeholder, verilen indeks için parametre yer tutucusunu döndürür.
	Placeholder(index int) string

	CompileSelect(b QueryBuilder) (Statement, error)
	CompileInsert(b QueryBuilder, data map[string]any) (Statement, error)
	CompileUpdate(b QueryBuilder, data map[string]any) (Statement, error)
	CompileDelete(b QueryBuilder) (Statement, error)
}

// Statement, derlenmiş SQL metni ve sıralı bağlama argümanlarıdır.
type Statement struct {
	SQL  string
	Args []any
}

// String, argümanları literal olarak yerleştirilmiş metni döndürür.
// Yalnızca log ve hata mesajları içindir; sorgu her zaman SQL+Args ile çalıştırılır.
func (s Statement) String() string {
	return Interpolate(s.SQL, s.Args)
}

// ----------------------------------------------------------------------------
// WHERE Clause Types
// ----------------------------------------------------------------------------

// WhereType, WHERE koşulunun türünü belirtir.
type WhereType int

const (
	WhereTypeBasic WhereType = iota
	WhereTypeIn
	WhereTypeNull
	WhereTypeNotNull
	WhereTypeRaw
	WhereTypeNested
)

// String, WhereType'ın string temsilini döndürür.
func (t WhereType) String() string {
	names := [...]string{"Basic", "In", "Null", "NotNull", "Raw", "Nested"}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// WhereBoolean, bir koşulu kendinden öncekine bağlayan bağlaçtır.
type WhereBoolean int

const (
	WhereBooleanAnd WhereBoolean = iota
	WhereBooleanOr
)

func (b WhereBoolean) String() string {
	if b == WhereBooleanOr {
		return "OR"
	}
	return "AND"
}

// WhereClause, tek bir predikattır: karşılaştırma, bağlaç (Nested) ya da Raw.
// Değerleri expr.go'daki yapıcılarla üretmek tercih edilir.
type WhereClause struct {
	Type     WhereType
	Boolean  WhereBoolean
	Column   string
	Operator string
	Value    any
	Values   []any
	Nested   []WhereClause
	Raw      string
	Bindings []any
}

// ----------------------------------------------------------------------------
// ORDER BY / JOIN Types
// ----------------------------------------------------------------------------

// OrderDirection, sıralama yönünü belirtir.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// IsValid, yönün geçerli olup olmadığını kontrol eder.
func (d OrderDirection) IsValid() bool {
	return d == OrderAsc || d == OrderDesc
}

// OrderClause, ORDER BY ifadesinin bir parçasıdır.
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// JoinType, JOIN türünü belirtir.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
)

// IsValid, JOIN türünün bilinen bir tür olup olmadığını döndürür.
func (t JoinType) IsValid() bool {
	switch t {
	case JoinInner, JoinLeft, JoinRight:
		return true
	}
	return false
}

// JoinClause, "mode JOIN table ON first op second" ifadesidir.
type JoinClause struct {
	Type     JoinType
	Table    string // "table" veya "table AS alias"
	First    string
	Operator string
	Second   string
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

var (
	ErrNoTable       = &DialectError{Message: "no table specified"}
	ErrNoColumns     = &DialectError{Message: "no columns specified"}
	ErrNoWhere       = &DialectError{Message: "where expression required"}
	ErrEmptyWhereIn  = &DialectError{Message: "empty value list passed to IN"}
	ErrEmptyNested   = &DialectError{Message: "empty conjunction"}
	ErrBadDirection  = &DialectError{Message: "order direction must be ASC or DESC"}
	ErrBadJoinType   = &DialectError{Message: "unknown join type"}
	ErrUnknownClause = &DialectError{Message: "unknown where clause type"}
)

// DialectError, derleme aşamasında reddedilen bir sorgu biçimini temsil eder.
type DialectError struct {
	Message string
}

func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
