package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/memobit/labsql/schema"
)

type cmdDescribe struct {
	global *cmdGlobal

	flagFormat string
}

// Command generates the command definition.
func (c *cmdDescribe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "describe <table>"
	cmd.Short = "Show the column definitions of a table"
	cmd.Long = `Description:
  Show the column definitions of a table

  Along with the catalog data this prints how values written to each
  column are emitted (quoted literal or number) and the kind its values
  are read back as.
`
	cmd.RunE = c.Run
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", "table", "Format (table|compact|yaml)"+"``")

	return cmd
}

// Run runs the actual command logic.
func (c *cmdDescribe) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	cfg, err := c.global.load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := c.global.connect(ctx, cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	table, err := db.Inspector().Describe(ctx, args[0])
	if err != nil {
		return err
	}

	return renderTable(os.Stdout, c.flagFormat, table)
}

type columnInfo struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Nullable bool    `yaml:"nullable"`
	Key      string  `yaml:"key,omitempty"`
	Default  *string `yaml:"default,omitempty"`
	Write    string  `yaml:"write"`
	Read     string  `yaml:"read"`
}

func columnInfos(table *schema.Table) []columnInfo {
	out := make([]columnInfo, len(table.Columns))
	for i, col := range table.Columns {
		write := "number"
		if col.Quoted() {
			write = "quoted"
		}

		out[i] = columnInfo{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: col.Nullable,
			Key:      col.Key,
			Default:  col.Default,
			Write:    write,
			Read:     col.Kind().String(),
		}
	}

	return out
}

func renderTable(w io.Writer, format string, table *schema.Table) error {
	infos := columnInfos(table)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		return enc.Encode(map[string]any{"table": table.Name, "columns": infos})
	case "table", "compact":
		header := []string{"NAME", "TYPE", "NULL", "KEY", "WRITE", "READ"}

		t := tablewriter.NewWriter(w)
		t.SetAlignment(tablewriter.ALIGN_LEFT)
		t.SetAutoWrapText(false)
		t.SetAutoFormatHeaders(false)
		t.SetHeader(header)
		if format == "compact" {
			t.SetColumnSeparator("")
			t.SetHeaderLine(false)
			t.SetBorder(false)
		}

		for _, info := range infos {
			null := "NO"
			if info.Nullable {
				null = "YES"
			}

			t.Append([]string{info.Name, info.Type, null, info.Key, info.Write, info.Read})
		}

		t.Render()
		return nil
	}

	return fmt.Errorf("Invalid format %q", format)
}
