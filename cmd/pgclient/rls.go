package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/edgeflare/pgclient/pkg/admin"
)

var rlsCmd = &cobra.Command{
	Use:   "rls",
	Short: "Manage row-level security",
}

var rlsEnableCmd = &cobra.Command{
	Use:   "enable <table>",
	Short: "Enable row-level security on a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.EnableRLS(cmd.Context(), args[0]); err != nil {
			log.Fatalf("enable rls: %v", err)
		}
		fmt.Printf("row-level security enabled on %s\n", args[0])
	},
}

var rlsDisableCmd = &cobra.Command{
	Use:   "disable <table>",
	Short: "Disable row-level security on a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.DisableRLS(cmd.Context(), args[0]); err != nil {
			log.Fatalf("disable rls: %v", err)
		}
		fmt.Printf("row-level security disabled on %s\n", args[0])
	},
}

var rlsStatusCmd = &cobra.Command{
	Use:   "status <table>",
	Short: "Show whether row-level security is enabled on a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		enabled, err := a.RLSStatus(cmd.Context(), args[0])
		if err != nil {
			log.Fatalf("rls status: %v", err)
		}
		fmt.Printf("%s: rls enabled=%t\n", args[0], enabled)
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage access policies",
}

var (
	policyTable string
	policyRoles []string
	policyUsing string
	policyCheck string
	policyFor   string
)

var policyCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an access policy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		params := admin.PolicyParams{
			Name:    args[0],
			Table:   policyTable,
			Command: admin.PolicyCommand(policyFor),
			Roles:   policyRoles,
			Using:   policyUsing,
			Check:   policyCheck,
		}
		if err := a.CreatePolicy(cmd.Context(), params); err != nil {
			log.Fatalf("create policy: %v", err)
		}
		fmt.Printf("policy %s created on %s\n", args[0], policyTable)
	},
}

var policyDropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Drop an access policy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		if err := a.DropPolicy(cmd.Context(), args[0], policyTable); err != nil {
			log.Fatalf("drop policy: %v", err)
		}
		fmt.Printf("policy %s dropped from %s\n", args[0], policyTable)
	},
}

var policyStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show whether a policy exists",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustAdmin()
		exists, err := a.PolicyExists(cmd.Context(), args[0], policyTable)
		if err != nil {
			log.Fatalf("policy status: %v", err)
		}
		fmt.Printf("%s on %s: exists=%t\n", args[0], policyTable, exists)
	},
}

func mustAdmin() *admin.Admin {
	a, err := newAdmin()
	if err != nil {
		log.Fatal(err)
	}
	return a
}

func init() {
	rlsCmd.AddCommand(rlsEnableCmd, rlsDisableCmd, rlsStatusCmd)

	policyCmd.PersistentFlags().StringVarP(&policyTable, "table", "t", "", "table the policy attaches to")
	policyCmd.MarkPersistentFlagRequired("table")
	policyCreateCmd.Flags().StringSliceVar(&policyRoles, "roles", nil, "roles the policy applies to (default PUBLIC)")
	policyCreateCmd.Flags().StringVar(&policyUsing, "using", "", "visibility expression for existing rows")
	policyCreateCmd.Flags().StringVar(&policyCheck, "check", "", "expression new rows must satisfy")
	policyCreateCmd.Flags().StringVar(&policyFor, "for", "", "statement class: ALL, SELECT, INSERT, UPDATE, DELETE")
	policyCmd.AddCommand(policyCreateCmd, policyDropCmd, policyStatusCmd)

	rootCmd.AddCommand(rlsCmd, policyCmd)
}
