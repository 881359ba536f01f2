package dialect

import (
	"errors"
	"reflect"
	"testing"
)

// mockBuilder implements QueryBuilder for grammar tests.
type mockBuilder struct {
	table   string
	columns []string
	wheres  []WhereClause
	orders  []OrderClause
	joins   []JoinClause
	groupBy []string
	limit   *int
	ignore  bool
}

func (m *mockBuilder) GetTable() string         { return m.table }
func (m *mockBuilder) GetColumns() []string     { return m.columns }
func (m *mockBuilder) GetWheres() []WhereClause { return m.wheres }
func (m *mockBuilder) GetOrders() []OrderClause { return m.orders }
func (m *mockBuilder) GetJoins() []JoinClause   { return m.joins }
func (m *mockBuilder) GetGroupBy() []string     { return m.groupBy }
func (m *mockBuilder) GetLimit() *int           { return m.limit }
func (m *mockBuilder) IsIgnoreInsert() bool     { return m.ignore }

func intPtr(n int) *int { return &n }

func TestMySQLGrammar_Wrap(t *testing.T) {
	g := MySQL()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", "name", "`name`", false},
		{"qualified", "ma.id", "`ma`.`id`", false},
		{"alias", "ma.id as analysisId", "`ma`.`id` AS `analysisId`", false},
		{"star", "*", "*", false},
		{"injection", "name; DROP TABLE x", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Wrap(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Wrap(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Wrap(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMySQLGrammar_CompileSelect(t *testing.T) {
	g := MySQL()

	tests := []struct {
		name     string
		builder  *mockBuilder
		wantSQL  string
		wantArgs []any
		wantErr  error
	}{
		{
			name:     "star",
			builder:  &mockBuilder{table: "medical_clinics"},
			wantSQL:  "SELECT * FROM `medical_clinics`",
			wantArgs: []any{},
		},
		{
			name: "columns and order",
			builder: &mockBuilder{
				table:   "medical_clinics",
				columns: []string{"id", "name"},
				orders:  []OrderClause{{Column: "name", Direction: OrderAsc}},
			},
			wantSQL:  "SELECT `id`, `name` FROM `medical_clinics` ORDER BY `name` ASC",
			wantArgs: []any{},
		},
		{
			name: "joined analysis list",
			builder: &mockBuilder{
				table:   "medical_analysis AS ma",
				columns: []string{"ma.id as analysisId", "analysisName", "mc.name as categoryName"},
				joins: []JoinClause{
					{Type: JoinLeft, Table: "medical_categories AS mc", First: "ma.categoryId", Operator: "=", Second: "mc.id"},
				},
				orders: []OrderClause{{Column: "analysisName", Direction: OrderAsc}},
			},
			wantSQL: "SELECT `ma`.`id` AS `analysisId`, `analysisName`, `mc`.`name` AS `categoryName` " +
				"FROM `medical_analysis` AS `ma` LEFT JOIN `medical_categories` AS `mc` ON `ma`.`categoryId` = `mc`.`id` " +
				"ORDER BY `analysisName` ASC",
			wantArgs: []any{},
		},
		{
			name: "where group limit",
			builder: &mockBuilder{
				table:   "medical_analysis_log",
				columns: []string{"analysisId"},
				wheres:  []WhereClause{Gte("value", 1), In("clinicId", 1, 2)},
				groupBy: []string{"analysisId"},
				limit:   intPtr(2),
			},
			wantSQL:  "SELECT `analysisId` FROM `medical_analysis_log` WHERE `value` >= ? AND `clinicId` IN (?, ?) GROUP BY `analysisId` LIMIT 2",
			wantArgs: []any{1, 1, 2},
		},
		{
			name: "nested or",
			builder: &mockBuilder{
				table:  "medical_analysis",
				wheres: []WhereClause{Eq("categoryId", 3), Or(IsNull("reference"), Eq("reference", ""))},
			},
			wantSQL:  "SELECT * FROM `medical_analysis` WHERE `categoryId` = ? AND (`reference` IS NULL OR `reference` = ?)",
			wantArgs: []any{3, ""},
		},
		{
			name: "raw is parenthesized among siblings",
			builder: &mockBuilder{
				table:  "medical_analysis_log",
				wheres: []WhereClause{Raw("YEAR(`date`) = ? OR 1 = 0", 2024), NotNull("value")},
			},
			wantSQL:  "SELECT * FROM `medical_analysis_log` WHERE (YEAR(`date`) = ? OR 1 = 0) AND `value` IS NOT NULL",
			wantArgs: []any{2024},
		},
		{
			name:    "no table",
			builder: &mockBuilder{},
			wantErr: ErrNoTable,
		},
		{
			name:    "empty in",
			builder: &mockBuilder{table: "t", wheres: []WhereClause{In("id")}},
			wantErr: ErrEmptyWhereIn,
		},
		{
			name:    "bad direction",
			builder: &mockBuilder{table: "t", orders: []OrderClause{{Column: "id", Direction: "SIDEWAYS"}}},
			wantErr: ErrBadDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := g.CompileSelect(tt.builder)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CompileSelect() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompileSelect() unexpected error: %v", err)
			}
			if stmt.SQL != tt.wantSQL {
				t.Errorf("CompileSelect() SQL =\n%s\nwant\n%s", stmt.SQL, tt.wantSQL)
			}
			if !reflect.DeepEqual(stmt.Args, tt.wantArgs) {
				t.Errorf("CompileSelect() args = %v, want %v", stmt.Args, tt.wantArgs)
			}
		})
	}
}

func TestMySQLGrammar_CompileInsert(t *testing.T) {
	g := MySQL()

	stmt, err := g.CompileInsert(&mockBuilder{table: "medical_analysis_log"}, map[string]any{
		"value":      5.4,
		"date":       "2024-01-10",
		"analysisId": int64(3),
		"clinicId":   int64(2),
	})
	if err != nil {
		t.Fatalf("CompileInsert() error: %v", err)
	}

	wantSQL := "INSERT INTO `medical_analysis_log` (`analysisId`, `clinicId`, `date`, `value`) VALUES (?, ?, ?, ?)"
	if stmt.SQL != wantSQL {
		t.Errorf("CompileInsert() SQL = %q, want %q", stmt.SQL, wantSQL)
	}
	wantArgs := []any{int64(3), int64(2), "2024-01-10", 5.4}
	if !reflect.DeepEqual(stmt.Args, wantArgs) {
		t.Errorf("CompileInsert() args = %v, want %v", stmt.Args, wantArgs)
	}

	stmt, err = g.CompileInsert(&mockBuilder{table: "medical_units", ignore: true}, map[string]any{"name": "mg/dL"})
	if err != nil {
		t.Fatalf("CompileInsert(ignore) error: %v", err)
	}
	if want := "INSERT IGNORE INTO `medical_units` (`name`) VALUES (?)"; stmt.SQL != want {
		t.Errorf("CompileInsert(ignore) SQL = %q, want %q", stmt.SQL, want)
	}

	if _, err := g.CompileInsert(&mockBuilder{table: "t"}, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("CompileInsert(empty) error = %v, want ErrNoColumns", err)
	}
	if _, err := g.CompileInsert(&mockBuilder{table: "t"}, map[string]any{"bad col": 1}); err == nil {
		t.Error("CompileInsert(bad column) expected error")
	}
}

func TestMySQLGrammar_CompileUpdate(t *testing.T) {
	g := MySQL()

	b := &mockBuilder{table: "medical_clinics", wheres: []WhereClause{Eq("id", 4)}}
	stmt, err := g.CompileUpdate(b, map[string]any{"name": "Central Lab"})
	if err != nil {
		t.Fatalf("CompileUpdate() error: %v", err)
	}
	if want := "UPDATE `medical_clinics` SET `name` = ? WHERE `id` = ?"; stmt.SQL != want {
		t.Errorf("CompileUpdate() SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{"Central Lab", 4}) {
		t.Errorf("CompileUpdate() args = %v", stmt.Args)
	}

	_, err = g.CompileUpdate(&mockBuilder{table: "medical_clinics"}, map[string]any{"name": "x"})
	if !errors.Is(err, ErrNoWhere) {
		t.Errorf("CompileUpdate(no where) error = %v, want ErrNoWhere", err)
	}
}

func TestMySQLGrammar_CompileDelete(t *testing.T) {
	g := MySQL()

	stmt, err := g.CompileDelete(&mockBuilder{table: "medical_clinics", wheres: []WhereClause{Eq("id", 9)}})
	if err != nil {
		t.Fatalf("CompileDelete() error: %v", err)
	}
	if want := "DELETE FROM `medical_clinics` WHERE `id` = ?"; stmt.SQL != want {
		t.Errorf("CompileDelete() SQL = %q, want %q", stmt.SQL, want)
	}

	if _, err := g.CompileDelete(&mockBuilder{table: "medical_clinics"}); !errors.Is(err, ErrNoWhere) {
		t.Errorf("CompileDelete(no where) error = %v, want ErrNoWhere", err)
	}
}

func TestMySQLGrammar_CompileJoin(t *testing.T) {
	g := MySQL()

	tests := []struct {
		name    string
		join    JoinClause
		want    string
		wantErr bool
	}{
		{
			name: "left",
			join: JoinClause{Type: JoinLeft, Table: "medical_units AS mu", First: "ma.unitId", Operator: "=", Second: "mu.id"},
			want: "LEFT JOIN `medical_units` AS `mu` ON `ma`.`unitId` = `mu`.`id`",
		},
		{
			name: "inner",
			join: JoinClause{Type: JoinInner, Table: "medical_clinics mcl", First: "mal.clinicId", Operator: "=", Second: "mcl.id"},
			want: "INNER JOIN `medical_clinics` AS `mcl` ON `mal`.`clinicId` = `mcl`.`id`",
		},
		{
			name:    "bad type",
			join:    JoinClause{Type: "OUTER; DROP", Table: "t", First: "a", Operator: "=", Second: "b"},
			wantErr: true,
		},
		{
			name:    "bad operator",
			join:    JoinClause{Type: JoinLeft, Table: "t", First: "a", Operator: "= 1 OR", Second: "b"},
			wantErr: true,
		},
		{
			name:    "value instead of column",
			join:    JoinClause{Type: JoinLeft, Table: "t", First: "a", Operator: "=", Second: "'1'"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.compileJoin(tt.join)
			if (err != nil) != tt.wantErr {
				t.Fatalf("compileJoin() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("compileJoin() = %q, want %q", got, tt.want)
			}
		})
	}
}
