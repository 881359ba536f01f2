// Package validation, sorgu derleyicisine giren tablo, kolon ve alias isimlerini
// doğrulayan dahili yardımcıları içerir. Builder'a gelen hiçbir isim bu paketten
// geçmeden SQL metnine yazılmaz.
//
// Desteklenen biçimler:
//   - "table", "column", "table.column"
//   - "table alias", "table AS alias"
//   - "table.column AS alias" (SELECT listesi için)
package validation

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength, MySQL'in tanımlayıcılar için kabul ettiği üst sınırdır.
const MaxIdentifierLength = 64

// identifierRegex, "name" veya "qualifier.name" biçimini kabul eder.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// aliasRegex, "ref alias" ve "ref AS alias" biçimlerini ayırır. Ref noktalı olabilir.
var aliasRegex = regexp.MustCompile(`(?i)^([a-zA-Z_][a-zA-Z0-9_.]*)\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)$`)

// ValidateIdentifier, tek bir (opsiyonel olarak noktalı) tanımlayıcıyı doğrular.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{Identifier: id, Reason: "identifier cannot be empty"}
	}

	for _, part := range strings.Split(id, ".") {
		if len(part) > MaxIdentifierLength {
			return &IdentifierError{
				Identifier: id,
				Reason:     "identifier exceeds maximum length of 64 characters",
			}
		}
	}

	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "only letters, digits, underscores and a single dot are allowed",
		}
	}

	return nil
}

// SplitAlias, "ref [AS] alias" ifadesini ref ve alias olarak ayırır.
// Alias yoksa ikinci dönüş değeri boştur. Her iki parça da doğrulanır.
func SplitAlias(expr string) (ref, alias string, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", "", &IdentifierError{Identifier: expr, Reason: "reference cannot be empty"}
	}

	if m := aliasRegex.FindStringSubmatch(expr); m != nil {
		if err := ValidateIdentifier(m[1]); err != nil {
			return "", "", err
		}
		if strings.Contains(m[2], ".") {
			return "", "", &IdentifierError{Identifier: m[2], Reason: "alias cannot be qualified"}
		}
		if len(m[2]) > MaxIdentifierLength {
			return "", "", &IdentifierError{Identifier: m[2], Reason: "alias exceeds maximum length of 64 characters"}
		}
		return m[1], m[2], nil
	}

	if err := ValidateIdentifier(expr); err != nil {
		return "", "", err
	}
	return expr, "", nil
}

// ValidateTableWithAlias, tablo referansını doğrular. Tablo adı noktalı olamaz.
func ValidateTableWithAlias(table string) (name, alias string, err error) {
	name, alias, err = SplitAlias(table)
	if err != nil {
		return "", "", err
	}
	if strings.Contains(name, ".") {
		return "", "", &IdentifierError{Identifier: table, Reason: "table name cannot be qualified"}
	}
	return name, alias, nil
}

// ValidateTableName, alias'sız ve noktasız tek bir tablo adını doğrular.
func ValidateTableName(table string) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	if strings.Contains(table, ".") {
		return &IdentifierError{Identifier: table, Reason: "table name cannot be qualified"}
	}
	return nil
}

// IdentifierError, doğrulanamayan bir ismi ve nedenini taşır.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "labsql: invalid identifier: " + e.Reason
	}
	return "labsql: invalid identifier '" + e.Identifier + "': " + e.Reason
}
