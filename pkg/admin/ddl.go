package admin

import (
	"context"
	"fmt"
	"regexp"
)

// validatable is implemented by every RPC parameter struct.
type validatable interface {
	Validate() error
}

var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// typeRegex admits SQL type expressions like varchar(255), numeric(10,2)
// or timestamp with time zone, while rejecting anything that could smuggle
// statement syntax into the procedure call.
var typeRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ ]*(\([0-9]+(,[0-9]+)?\))?(\[\])?$`)

func validIdent(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !identRegex.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}

func validType(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !typeRegex.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}

// ColumnDef describes one column of a table to create.
type ColumnDef struct {
	// Name is the column name.
	Name string `json:"name"`
	// Type is the SQL data type, eg text, bigint, numeric(10,2).
	Type string `json:"type"`
	// Nullable permits NULL values.
	Nullable bool `json:"nullable"`
	// PrimaryKey marks the column as part of the primary key.
	PrimaryKey bool `json:"primary_key"`
	// Default is a SQL default expression, empty for none.
	Default string `json:"default,omitempty"`
}

func (c ColumnDef) Validate() error {
	if err := validIdent("column name", c.Name); err != nil {
		return err
	}
	return validType("column type", c.Type)
}

// TableParams describes a table to create.
type TableParams struct {
	Name        string      `json:"table_name"`
	Columns     []ColumnDef `json:"columns"`
	IfNotExists bool        `json:"if_not_exists"`
}

func (p TableParams) Validate() error {
	if err := validIdent("table_name", p.Name); err != nil {
		return err
	}
	if len(p.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	for _, col := range p.Columns {
		if err := col.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CreateTable creates a table.
func (a *Admin) CreateTable(ctx context.Context, params TableParams) error {
	return a.call(ctx, rpcCreateTable, params)
}

type dropTableParams struct {
	Table   string `json:"table_name"`
	Cascade bool   `json:"cascade"`
}

func (p dropTableParams) Validate() error {
	return validIdent("table_name", p.Table)
}

// DropTable drops a table. With cascade, dependent objects are dropped too.
func (a *Admin) DropTable(ctx context.Context, table string, cascade bool) error {
	return a.call(ctx, rpcDropTable, dropTableParams{Table: table, Cascade: cascade})
}

// ColumnParams describes a column to add or alter on an existing table.
type ColumnParams struct {
	Table string `json:"table_name"`
	Name  string `json:"column_name"`
	// Type is the column's SQL data type; for AlterColumn it is the type to
	// convert to and may be empty when only the default changes.
	Type string `json:"type,omitempty"`
	// Nullable permits NULL values (AddColumn only).
	Nullable bool `json:"nullable"`
	// Default is a SQL default expression, empty for none.
	Default string `json:"default,omitempty"`
}

func (p ColumnParams) Validate() error {
	if err := validIdent("table_name", p.Table); err != nil {
		return err
	}
	if err := validIdent("column_name", p.Name); err != nil {
		return err
	}
	if p.Type != "" {
		return validType("column type", p.Type)
	}
	return nil
}

// AddColumn adds a column to an existing table. Type is required.
func (a *Admin) AddColumn(ctx context.Context, params ColumnParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.Type == "" {
		return fmt.Errorf("column type is required")
	}
	res := a.client.Rpc(ctx, rpcAddColumn, params)
	return res.Err
}

// AlterColumn changes a column's type and/or default.
func (a *Admin) AlterColumn(ctx context.Context, params ColumnParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.Type == "" && params.Default == "" {
		return fmt.Errorf("nothing to alter: set type or default")
	}
	res := a.client.Rpc(ctx, rpcAlterColumn, params)
	return res.Err
}

type columnRef struct {
	Table string `json:"table_name"`
	Name  string `json:"column_name"`
}

func (p columnRef) Validate() error {
	if err := validIdent("table_name", p.Table); err != nil {
		return err
	}
	return validIdent("column_name", p.Name)
}

// DropColumn drops a column from a table.
func (a *Admin) DropColumn(ctx context.Context, table, column string) error {
	return a.call(ctx, rpcDropColumn, columnRef{Table: table, Name: column})
}

// IndexMethod is a PostgreSQL index access method.
type IndexMethod string

const (
	IndexBtree IndexMethod = "btree"
	IndexHash  IndexMethod = "hash"
	IndexGin   IndexMethod = "gin"
	IndexGist  IndexMethod = "gist"
	IndexBrin  IndexMethod = "brin"
)

// IndexParams describes an index to create.
type IndexParams struct {
	Name    string   `json:"index_name"`
	Table   string   `json:"table_name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
	// Method is the access method, default btree.
	Method IndexMethod `json:"method,omitempty"`
}

func (p IndexParams) Validate() error {
	if err := validIdent("index_name", p.Name); err != nil {
		return err
	}
	if err := validIdent("table_name", p.Table); err != nil {
		return err
	}
	if len(p.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	for _, col := range p.Columns {
		if err := validIdent("column", col); err != nil {
			return err
		}
	}
	if p.Method != "" {
		switch p.Method {
		case IndexBtree, IndexHash, IndexGin, IndexGist, IndexBrin:
		default:
			return fmt.Errorf("invalid index method: %q", p.Method)
		}
	}
	return nil
}

// CreateIndex creates an index.
func (a *Admin) CreateIndex(ctx context.Context, params IndexParams) error {
	return a.call(ctx, rpcCreateIndex, params)
}

type indexRef struct {
	Name string `json:"index_name"`
}

func (p indexRef) Validate() error {
	return validIdent("index_name", p.Name)
}

// DropIndex drops an index by name.
func (a *Admin) DropIndex(ctx context.Context, name string) error {
	return a.call(ctx, rpcDropIndex, indexRef{Name: name})
}
