package dialect

import (
	"testing"
	"time"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"O'Brien", `O\'Brien`},
		{`say "hi"`, `say \"hi\"`},
		{`C:\lab`, `C:\\lab`},
		{"nul\x00byte", `nul\0byte`},
		{"' OR 1=1 --", `\' OR 1=1 --`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	var nilPtr *int
	seven := 7

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "12345", "'12345'"},
		{"escaped string", "it's", `'it\'s'`},
		{"bytes", []byte("abc"), "'abc'"},
		{"int", 3, "3"},
		{"int64", int64(-12), "-12"},
		{"uint8", uint8(200), "200"},
		{"float", 5.4, "5.4"},
		{"float fraction", 12.5, "12.5"},
		{"bool", true, "1"},
		{"time", time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC), "'2024-01-10 08:30:00'"},
		{"nil pointer", nilPtr, "NULL"},
		{"pointer", &seven, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Literal(tt.in); got != tt.want {
				t.Errorf("Literal(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		args []any
		want string
	}{
		{
			name: "insert",
			sql:  "INSERT INTO `t` (`date`, `value`) VALUES (?, ?)",
			args: []any{"2024-01-10", 5.4},
			want: "INSERT INTO `t` (`date`, `value`) VALUES ('2024-01-10', 5.4)",
		},
		{
			name: "quoted question mark is kept",
			sql:  "SELECT * FROM `t` WHERE `note` = 'why?' AND `id` = ?",
			args: []any{1},
			want: "SELECT * FROM `t` WHERE `note` = 'why?' AND `id` = 1",
		},
		{
			name: "escaped quote inside literal",
			sql:  `SELECT 'a\'?' , ?`,
			args: []any{nil},
			want: `SELECT 'a\'?' , NULL`,
		},
		{
			name: "missing args leave placeholders",
			sql:  "? ?",
			args: []any{1},
			want: "1 ?",
		},
		{
			name: "no args",
			sql:  "SELECT ?",
			want: "SELECT ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(tt.sql, tt.args); got != tt.want {
				t.Errorf("Interpolate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementString(t *testing.T) {
	stmt := Statement{SQL: "UPDATE `medical_clinics` SET `name` = ? WHERE `id` = ?", Args: []any{"12345", int64(2)}}
	want := "UPDATE `medical_clinics` SET `name` = '12345' WHERE `id` = 2"
	if got := stmt.String(); got != want {
		t.Errorf("Statement.String() = %q, want %q", got, want)
	}
}
