package validation

import "strings"

// allowedOperators, karşılaştırma predikatlarında ve JOIN koşullarında
// kullanılabilecek operatörlerin beyaz listesidir.
var allowedOperators = map[string]bool{
	"=":   true,
	"!=":  true,
	"<>":  true,
	"<":   true,
	">":   true,
	"<=":  true,
	">=":  true,
	"<=>": true, // MySQL NULL-safe eşitlik

	"LIKE":     true,
	"NOT LIKE": true,
}

// joinOperators, ON koşulunda iki kolonu bağlayabilecek operatörlerdir.
var joinOperators = map[string]bool{
	"=": true, "!=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true, "<=>": true,
}

// NormalizeOperator, operatörü büyük harfe çevirip beyaz listeye karşı kontrol eder.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(op))
	if !allowedOperators[normalized] {
		return "", &OperatorError{Operator: op, Reason: "operator not in allowed list"}
	}
	return normalized, nil
}

// ValidateJoinOperator, JOIN ... ON koşulu için operatörü doğrular.
func ValidateJoinOperator(op string) error {
	if !joinOperators[strings.TrimSpace(op)] {
		return &OperatorError{Operator: op, Reason: "operator not allowed in join condition"}
	}
	return nil
}

// OperatorError, reddedilen operatörü açıklar.
type OperatorError struct {
	Operator string
	Reason   string
}

func (e *OperatorError) Error() string {
	return "labsql: invalid operator '" + e.Operator + "': " + e.Reason
}
