package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeflare/pgclient/pkg/admin"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage tables, columns and indexes",
}

var (
	schemaColumns     []string
	schemaIfNotExists bool
	schemaCascade     bool
	schemaTable       string
	schemaColType     string
	schemaNullable    bool
	schemaDefault     string
	schemaUnique      bool
	schemaMethod      string
)

// parseColumnSpec parses "name:type[:pk]" into a ColumnDef.
func parseColumnSpec(spec string) (admin.ColumnDef, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return admin.ColumnDef{}, fmt.Errorf("invalid column spec %q, want name:type[:pk]", spec)
	}
	col := admin.ColumnDef{Name: parts[0], Type: parts[1], Nullable: true}
	if len(parts) == 3 {
		switch parts[2] {
		case "pk":
			col.PrimaryKey = true
			col.Nullable = false
		case "notnull":
			col.Nullable = false
		default:
			return admin.ColumnDef{}, fmt.Errorf("invalid column modifier %q", parts[2])
		}
	}
	return col, nil
}

var createTableCmd = &cobra.Command{
	Use:   "create-table <name>",
	Short: "Create a table",
	Long:  `Create a table from column specs, eg: pgclient schema create-table products -c id:bigint:pk -c name:text`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		columns := make([]admin.ColumnDef, 0, len(schemaColumns))
		for _, spec := range schemaColumns {
			col, err := parseColumnSpec(spec)
			if err != nil {
				log.Fatal(err)
			}
			columns = append(columns, col)
		}
		params := admin.TableParams{
			Name:        args[0],
			Columns:     columns,
			IfNotExists: schemaIfNotExists,
		}
		if err := a.CreateTable(cmd.Context(), params); err != nil {
			log.Fatalf("create table: %v", err)
		}
		fmt.Printf("table %s created\n", args[0])
	},
}

var dropTableCmd = &cobra.Command{
	Use:   "drop-table <name>",
	Short: "Drop a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.DropTable(cmd.Context(), args[0], schemaCascade); err != nil {
			log.Fatalf("drop table: %v", err)
		}
		fmt.Printf("table %s dropped\n", args[0])
	},
}

var addColumnCmd = &cobra.Command{
	Use:   "add-column <name>",
	Short: "Add a column to a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		params := admin.ColumnParams{
			Table:    schemaTable,
			Name:     args[0],
			Type:     schemaColType,
			Nullable: schemaNullable,
			Default:  schemaDefault,
		}
		if err := a.AddColumn(cmd.Context(), params); err != nil {
			log.Fatalf("add column: %v", err)
		}
		fmt.Printf("column %s added to %s\n", args[0], schemaTable)
	},
}

var dropColumnCmd = &cobra.Command{
	Use:   "drop-column <name>",
	Short: "Drop a column from a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.DropColumn(cmd.Context(), schemaTable, args[0]); err != nil {
			log.Fatalf("drop column: %v", err)
		}
		fmt.Printf("column %s dropped from %s\n", args[0], schemaTable)
	},
}

var alterColumnCmd = &cobra.Command{
	Use:   "alter-column <name>",
	Short: "Change a column's type or default",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		params := admin.ColumnParams{
			Table:   schemaTable,
			Name:    args[0],
			Type:    schemaColType,
			Default: schemaDefault,
		}
		if err := a.AlterColumn(cmd.Context(), params); err != nil {
			log.Fatalf("alter column: %v", err)
		}
		fmt.Printf("column %s altered on %s\n", args[0], schemaTable)
	},
}

var createIndexCmd = &cobra.Command{
	Use:   "create-index <name>",
	Short: "Create an index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		params := admin.IndexParams{
			Name:    args[0],
			Table:   schemaTable,
			Columns: schemaColumns,
			Unique:  schemaUnique,
			Method:  admin.IndexMethod(schemaMethod),
		}
		if err := a.CreateIndex(cmd.Context(), params); err != nil {
			log.Fatalf("create index: %v", err)
		}
		fmt.Printf("index %s created on %s\n", args[0], schemaTable)
	},
}

var dropIndexCmd = &cobra.Command{
	Use:   "drop-index <name>",
	Short: "Drop an index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.DropIndex(cmd.Context(), args[0]); err != nil {
			log.Fatalf("drop index: %v", err)
		}
		fmt.Printf("index %s dropped\n", args[0])
	},
}

func init() {
	createTableCmd.Flags().StringSliceVarP(&schemaColumns, "column", "c", nil, "column spec name:type[:pk|:notnull], repeatable")
	createTableCmd.Flags().BoolVar(&schemaIfNotExists, "if-not-exists", false, "no error if the table exists")
	dropTableCmd.Flags().BoolVar(&schemaCascade, "cascade", false, "drop dependent objects too")

	for _, c := range []*cobra.Command{addColumnCmd, dropColumnCmd, alterColumnCmd, createIndexCmd} {
		c.Flags().StringVarP(&schemaTable, "table", "t", "", "table to operate on")
		c.MarkFlagRequired("table")
	}
	addColumnCmd.Flags().StringVar(&schemaColType, "type", "", "SQL data type")
	addColumnCmd.MarkFlagRequired("type")
	addColumnCmd.Flags().BoolVar(&schemaNullable, "nullable", true, "permit NULL values")
	addColumnCmd.Flags().StringVar(&schemaDefault, "default", "", "SQL default expression")
	alterColumnCmd.Flags().StringVar(&schemaColType, "type", "", "SQL data type to convert to")
	alterColumnCmd.Flags().StringVar(&schemaDefault, "default", "", "SQL default expression")
	createIndexCmd.Flags().StringSliceVarP(&schemaColumns, "column", "c", nil, "indexed column, repeatable")
	createIndexCmd.Flags().BoolVar(&schemaUnique, "unique", false, "create a unique index")
	createIndexCmd.Flags().StringVar(&schemaMethod, "method", "", "index method: btree, hash, gin, gist, brin")

	schemaCmd.AddCommand(createTableCmd, dropTableCmd, addColumnCmd, dropColumnCmd, alterColumnCmd, createIndexCmd, dropIndexCmd)
	rootCmd.AddCommand(schemaCmd)
}
