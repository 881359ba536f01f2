package dialect

// Predikat yapıcıları. Her biri bir WhereClause döndürür; Builder.Where bunları
// AND ile birleştirir.
//
//	dialect.Eq("ma.id", id)
//	dialect.And(dialect.Gte("value", 1), dialect.Lt("value", 5))
//	dialect.Or(dialect.IsNull("reference"), dialect.Eq("reference", ""))
//	dialect.Raw("DATE(`date`) = CURDATE()")

// Cmp, "column op ?" karşılaştırmasıdır. Operatör derleme sırasında doğrulanır.
func Cmp(column, operator string, value any) WhereClause {
	return WhereClause{
		Type:     WhereTypeBasic,
		Column:   column,
		Operator: operator,
		Value:    value,
	}
}

func Eq(column string, value any) WhereClause  { return Cmp(column, "=", value) }
func Ne(column string, value any) WhereClause  { return Cmp(column, "<>", value) }
func Lt(column string, value any) WhereClause  { return Cmp(column, "<", value) }
func Lte(column string, value any) WhereClause { return Cmp(column, "<=", value) }
func Gt(column string, value any) WhereClause  { return Cmp(column, ">", value) }
func Gte(column string, value any) WhereClause { return Cmp(column, ">=", value) }

// Like, "column LIKE ?" karşılaştırmasıdır.
func Like(column, pattern string) WhereClause { return Cmp(column, "LIKE", pattern) }

// In, "column IN (?, ?, ...)" koşuludur. Boş liste derleme hatasıdır.
func In(column string, values ...any) WhereClause {
	return WhereClause{Type: WhereTypeIn, Column: column, Values: values}
}

// IsNull, "column IS NULL" koşuludur.
func IsNull(column string) WhereClause {
	return WhereClause{Type: WhereTypeNull, Column: column}
}

// NotNull, "column IS NOT NULL" koşuludur.
func NotNull(column string) WhereClause {
	return WhereClause{Type: WhereTypeNotNull, Column: column}
}

// And, predikatları parantez içinde AND ile bağlar.
func And(preds ...WhereClause) WhereClause {
	return conjunction(WhereBooleanAnd, preds)
}

// Or, predikatları parantez içinde OR ile bağlar.
func Or(preds ...WhereClause) WhereClause {
	return conjunction(WhereBooleanOr, preds)
}

func conjunction(boolean WhereBoolean, preds []WhereClause) WhereClause {
	nested := make([]WhereClause, len(preds))
	for i, p := range preds {
		p.Boolean = boolean
		nested[i] = p
	}
	return WhereClause{Type: WhereTypeNested, Nested: nested}
}

// Raw, doğrulanmadan SQL'e yazılan bir predikattır. Değerler yine "?" ile
// bağlanmalıdır; metin yalnızca güvenilir kaynaktan gelmelidir.
func Raw(sql string, bindings ...any) WhereClause {
	return WhereClause{Type: WhereTypeRaw, Raw: sql, Bindings: bindings}
}
