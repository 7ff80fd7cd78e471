// Package admin is a typed surface over privileged administrative RPCs:
// row-level security toggles, access policies, and schema management. Each
// call is a POST to /rest/v1/rpc/<name> against a procedure assumed to be
// pre-installed and access-restricted server-side; this package only shapes
// and sends the call. Parameters are validated before the network hop so
// client-side mistakes fail fast.
package admin

import (
	"context"
	"fmt"

	"github.com/edgeflare/pgclient/pkg/postgrest"
)

// Remote procedure names. The procedures are expected to exist server-side
// as SECURITY DEFINER functions restricted to the service role.
const (
	rpcEnableRLS    = "enable_rls"
	rpcDisableRLS   = "disable_rls"
	rpcRLSStatus    = "rls_status"
	rpcCreatePolicy = "create_policy"
	rpcDropPolicy   = "drop_policy"
	rpcPolicyExists = "policy_exists"
	rpcCreateTable  = "create_table"
	rpcDropTable    = "drop_table"
	rpcAddColumn    = "add_column"
	rpcDropColumn   = "drop_column"
	rpcAlterColumn  = "alter_column"
	rpcCreateIndex  = "create_index"
	rpcDropIndex    = "drop_index"
)

// Admin wraps a service client. New refuses anonymous clients so privileged
// calls cannot be attempted under the anonymous role.
type Admin struct {
	client *postgrest.Client
}

// New creates an Admin over c. Returns ErrServiceKeyRequired unless c was
// constructed with a service key.
func New(c *postgrest.Client) (*Admin, error) {
	if !c.IsService() {
		return nil, postgrest.ErrServiceKeyRequired
	}
	return &Admin{client: c}, nil
}

// call validates params, invokes the procedure and surfaces the normalized
// error, discarding the result payload.
func (a *Admin) call(ctx context.Context, name string, params validatable) error {
	if err := params.Validate(); err != nil {
		return err
	}
	res := a.client.Rpc(ctx, name, params)
	return res.Err
}

// EnableRLS enables row-level security on table.
func (a *Admin) EnableRLS(ctx context.Context, table string) error {
	return a.call(ctx, rpcEnableRLS, tableRef{Table: table})
}

// DisableRLS disables row-level security on table.
func (a *Admin) DisableRLS(ctx context.Context, table string) error {
	return a.call(ctx, rpcDisableRLS, tableRef{Table: table})
}

// RLSStatus reports whether row-level security is enabled on table.
func (a *Admin) RLSStatus(ctx context.Context, table string) (bool, error) {
	params := tableRef{Table: table}
	if err := params.Validate(); err != nil {
		return false, err
	}
	res := a.client.Rpc(ctx, rpcRLSStatus, params)
	if res.Err != nil {
		return false, res.Err
	}
	enabled, ok := res.Data.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected rls_status result: %v", res.Data)
	}
	return enabled, nil
}

// PolicyCommand is the statement class a policy applies to.
type PolicyCommand string

const (
	PolicyAll    PolicyCommand = "ALL"
	PolicySelect PolicyCommand = "SELECT"
	PolicyInsert PolicyCommand = "INSERT"
	PolicyUpdate PolicyCommand = "UPDATE"
	PolicyDelete PolicyCommand = "DELETE"
)

// PolicyParams describes an access policy to create.
type PolicyParams struct {
	// Name is the policy name, unique per table.
	Name string `json:"policy_name"`
	// Table is the table the policy attaches to.
	Table string `json:"table_name"`
	// Command is the statement class the policy applies to, default ALL.
	Command PolicyCommand `json:"command,omitempty"`
	// Roles restricts the policy to the given roles; empty means PUBLIC.
	Roles []string `json:"roles,omitempty"`
	// Using is the visibility expression for existing rows.
	Using string `json:"using_expression,omitempty"`
	// Check is the expression new or modified rows must satisfy.
	Check string `json:"check_expression,omitempty"`
}

// Validate reports the first invalid field, before any network traffic.
func (p PolicyParams) Validate() error {
	if err := validIdent("policy_name", p.Name); err != nil {
		return err
	}
	if err := validIdent("table_name", p.Table); err != nil {
		return err
	}
	if p.Command != "" {
		switch p.Command {
		case PolicyAll, PolicySelect, PolicyInsert, PolicyUpdate, PolicyDelete:
		default:
			return fmt.Errorf("invalid policy command: %q", p.Command)
		}
	}
	for _, role := range p.Roles {
		if err := validIdent("role", role); err != nil {
			return err
		}
	}
	return nil
}

// CreatePolicy creates an access policy.
func (a *Admin) CreatePolicy(ctx context.Context, params PolicyParams) error {
	return a.call(ctx, rpcCreatePolicy, params)
}

// DropPolicy drops the named policy from table.
func (a *Admin) DropPolicy(ctx context.Context, name, table string) error {
	return a.call(ctx, rpcDropPolicy, policyRef{Name: name, Table: table})
}

// PolicyExists reports whether the named policy exists on table.
func (a *Admin) PolicyExists(ctx context.Context, name, table string) (bool, error) {
	params := policyRef{Name: name, Table: table}
	if err := params.Validate(); err != nil {
		return false, err
	}
	res := a.client.Rpc(ctx, rpcPolicyExists, params)
	if res.Err != nil {
		return false, res.Err
	}
	exists, ok := res.Data.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected policy_exists result: %v", res.Data)
	}
	return exists, nil
}

type tableRef struct {
	Table string `json:"table_name"`
}

func (p tableRef) Validate() error {
	return validIdent("table_name", p.Table)
}

type policyRef struct {
	Name  string `json:"policy_name"`
	Table string `json:"table_name"`
}

func (p policyRef) Validate() error {
	if err := validIdent("policy_name", p.Name); err != nil {
		return err
	}
	return validIdent("table_name", p.Table)
}
