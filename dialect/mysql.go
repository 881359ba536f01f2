package dialect

import (
	"sort"
	"strconv"
	"strings"

	"github.com/memobit/labsql/internal/validation"
)

// MySQLGrammar, Grammar arayüzünü MySQL ve MariaDB için implemente eder.
// Tanımlayıcılar backtick ile sarılır, değerler "?" ile bağlanır.
type MySQLGrammar struct{}

// MySQL, yeni bir MySQL dilbilgisi örneği oluşturur.
func MySQL() *MySQLGrammar {
	return &MySQLGrammar{}
}

// Name, "mysql" döndürür.
func (g *MySQLGrammar) Name() string {
	return "mysql"
}

// Wrap, bir kolon referansını tırnaklar.
//
//	"analysisName"        -> "`analysisName`"
//	"ma.id"               -> "`ma`.`id`"
//	"ma.id as analysisId" -> "`ma`.`id` AS `analysisId`"
func (g *MySQLGrammar) Wrap(identifier string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	ref, alias, err := validation.SplitAlias(identifier)
	if err != nil {
		return "", err
	}

	wrapped := quoteRef(ref)
	if alias != "" {
		wrapped += " AS `" + alias + "`"
	}
	return wrapped, nil
}

// WrapTable, tablo adını ve varsa alias'ını tırnaklar.
func (g *MySQLGrammar) WrapTable(table string) (string, error) {
	name, alias, err := validation.ValidateTableWithAlias(table)
	if err != nil {
		return "", err
	}

	wrapped := "`" + name + "`"
	if alias != "" {
		wrapped += " AS `" + alias + "`"
	}
	return wrapped, nil
}

// Placeholder, MySQL için her zaman "?" döndürür.
func (g *MySQLGrammar) Placeholder(int) string {
	return "?"
}

// CompileSelect, SELECT cols FROM table [joins] [WHERE] [GROUP BY] [ORDER BY] [LIMIT]
// sırasıyla bir SELECT cümlesi kurar.
func (g *MySQLGrammar) CompileSelect(b QueryBuilder) (Statement, error) {
	if b.GetTable() == "" {
		return Statement{}, ErrNoTable
	}

	var sql strings.Builder
	args := make([]any, 0)

	sql.WriteString("SELECT ")

	columns := b.GetColumns()
	if len(columns) == 0 {
		sql.WriteString("*")
	} else {
		wrapped := make([]string, len(columns))
		for i, col := range columns {
			w, err := g.Wrap(col)
			if err != nil {
				return Statement{}, err
			}
			wrapped[i] = w
		}
		sql.WriteString(strings.Join(wrapped, ", "))
	}

	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}
	sql.WriteString(" FROM ")
	sql.WriteString(table)

	for _, join := range b.GetJoins() {
		joinSQL, err := g.compileJoin(join)
		if err != nil {
			return Statement{}, err
		}
		sql.WriteString(" ")
		sql.WriteString(joinSQL)
	}

	if wheres := b.GetWheres(); len(wheres) > 0 {
		whereSQL, whereArgs, err := g.compileWheres(wheres)
		if err != nil {
			return Statement{}, err
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}

	if groupBy := b.GetGroupBy(); len(groupBy) > 0 {
		parts := make([]string, len(groupBy))
		for i, col := range groupBy {
			w, err := g.wrapRef(col)
			if err != nil {
				return Statement{}, err
			}
			parts[i] = w
		}
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(parts, ", "))
	}

	if orders := b.GetOrders(); len(orders) > 0 {
		parts := make([]string, len(orders))
		for i, order := range orders {
			if !order.Direction.IsValid() {
				return Statement{}, ErrBadDirection
			}
			w, err := g.wrapRef(order.Column)
			if err != nil {
				return Statement{}, err
			}
			parts[i] = w + " " + string(order.Direction)
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(parts, ", "))
	}

	if limit := b.GetLimit(); limit != nil {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(*limit))
	}

	return Statement{SQL: sql.String(), Args: args}, nil
}

// CompileInsert, "INSERT [IGNORE] INTO table (cols) VALUES (?, ...)" kurar.
// Kolonlar alfabetik sıralanır; çıktı deterministiktir.
func (g *MySQLGrammar) CompileInsert(b QueryBuilder, data map[string]any) (Statement, error) {
	if b.GetTable() == "" {
		return Statement{}, ErrNoTable
	}
	if len(data) == 0 {
		return Statement{}, ErrNoColumns
	}

	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}

	keys := sortedKeys(data)
	args := make([]any, 0, len(keys))
	cols := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	for i, key := range keys {
		w, err := g.wrapRef(key)
		if err != nil {
			return Statement{}, err
		}
		cols[i] = w
		placeholders[i] = g.Placeholder(i)
		args = append(args, data[key])
	}

	var sql strings.Builder
	sql.WriteString("INSERT ")
	if b.IsIgnoreInsert() {
		sql.WriteString("IGNORE ")
	}
	sql.WriteString("INTO ")
	sql.WriteString(table)
	sql.WriteString(" (")
	sql.WriteString(strings.Join(cols, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(placeholders, ", "))
	sql.WriteString(")")

	return Statement{SQL: sql.String(), Args: args}, nil
}

// CompileUpdate, "UPDATE table SET col = ?, ... WHERE ..." kurar.
// WHERE olmadan UPDATE derlenmez.
func (g *MySQLGrammar) CompileUpdate(b QueryBuilder, data map[string]any) (Statement, error) {
	if b.GetTable() == "" {
		return Statement{}, ErrNoTable
	}
	if len(data) == 0 {
		return Statement{}, ErrNoColumns
	}
	wheres := b.GetWheres()
	if len(wheres) == 0 {
		return Statement{}, ErrNoWhere
	}

	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}

	keys := sortedKeys(data)
	args := make([]any, 0, len(keys))
	sets := make([]string, len(keys))
	for i, key := range keys {
		w, err := g.wrapRef(key)
		if err != nil {
			return Statement{}, err
		}
		sets[i] = w + " = " + g.Placeholder(i)
		args = append(args, data[key])
	}

	whereSQL, whereArgs, err := g.compileWheres(wheres)
	if err != nil {
		return Statement{}, err
	}
	args = append(args, whereArgs...)

	sql := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + whereSQL
	return Statement{SQL: sql, Args: args}, nil
}

// CompileDelete, "DELETE FROM table WHERE ..." kurar. WHERE zorunludur.
func (g *MySQLGrammar) CompileDelete(b QueryBuilder) (Statement, error) {
	if b.GetTable() == "" {
		return Statement{}, ErrNoTable
	}
	wheres := b.GetWheres()
	if len(wheres) == 0 {
		return Statement{}, ErrNoWhere
	}

	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}

	whereSQL, args, err := g.compileWheres(wheres)
	if err != nil {
		return Statement{}, err
	}

	return Statement{SQL: "DELETE FROM " + table + " WHERE " + whereSQL, Args: args}, nil
}

// ----------------------------------------------------------------------------
// Internal helpers
// ----------------------------------------------------------------------------

// wrapRef, alias kabul etmeyen kolon referanslarını (SET, GROUP BY, ORDER BY, ON) tırnaklar.
func (g *MySQLGrammar) wrapRef(ref string) (string, error) {
	if err := validation.ValidateIdentifier(ref); err != nil {
		return "", err
	}
	return quoteRef(ref), nil
}

func quoteRef(ref string) string {
	parts := strings.Split(ref, ".")
	for i, part := range parts {
		parts[i] = "`" + part + "`"
	}
	return strings.Join(parts, ".")
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compileWheres, koşulları kendi bağlaçlarıyla birleştirir. İlk koşulun bağlacı
// yok sayılır. Birden fazla koşul varsa Raw parçalar paranteze alınır.
func (g *MySQLGrammar) compileWheres(wheres []WhereClause) (string, []any, error) {
	var sql strings.Builder
	args := make([]any, 0)

	for i, where := range wheres {
		if i > 0 {
			sql.WriteString(" ")
			sql.WriteString(where.Boolean.String())
			sql.WriteString(" ")
		}

		clauseSQL, clauseArgs, err := g.compileWhere(where)
		if err != nil {
			return "", nil, err
		}
		if where.Type == WhereTypeRaw && len(wheres) > 1 {
			clauseSQL = "(" + clauseSQL + ")"
		}
		sql.WriteString(clauseSQL)
		args = append(args, clauseArgs...)
	}

	return sql.String(), args, nil
}

func (g *MySQLGrammar) compileWhere(where WhereClause) (string, []any, error) {
	switch where.Type {
	case WhereTypeBasic:
		column, err := g.wrapRef(where.Column)
		if err != nil {
			return "", nil, err
		}
		op, err := validation.NormalizeOperator(where.Operator)
		if err != nil {
			return "", nil, err
		}
		return column + " " + op + " ?", []any{where.Value}, nil

	case WhereTypeIn:
		if len(where.Values) == 0 {
			return "", nil, ErrEmptyWhereIn
		}
		column, err := g.wrapRef(where.Column)
		if err != nil {
			return "", nil, err
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(where.Values)), ", ")
		return column + " IN (" + placeholders + ")", where.Values, nil

	case WhereTypeNull, WhereTypeNotNull:
		column, err := g.wrapRef(where.Column)
		if err != nil {
			return "", nil, err
		}
		if where.Type == WhereTypeNotNull {
			return column + " IS NOT NULL", nil, nil
		}
		return column + " IS NULL", nil, nil

	case WhereTypeRaw:
		return where.Raw, where.Bindings, nil

	case WhereTypeNested:
		if len(where.Nested) == 0 {
			return "", nil, ErrEmptyNested
		}
		nestedSQL, args, err := g.compileWheres(where.Nested)
		if err != nil {
			return "", nil, err
		}
		return "(" + nestedSQL + ")", args, nil
	}

	return "", nil, ErrUnknownClause
}

// compileJoin, "LEFT JOIN `t` AS `a` ON `x`.`y` = `a`.`z`" üretir.
func (g *MySQLGrammar) compileJoin(join JoinClause) (string, error) {
	if !join.Type.IsValid() {
		return "", ErrBadJoinType
	}

	table, err := g.WrapTable(join.Table)
	if err != nil {
		return "", err
	}
	first, err := g.wrapRef(join.First)
	if err != nil {
		return "", err
	}
	second, err := g.wrapRef(join.Second)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateJoinOperator(join.Operator); err != nil {
		return "", err
	}

	return string(join.Type) + " JOIN " + table + " ON " + first + " " + strings.TrimSpace(join.Operator) + " " + second, nil
}
