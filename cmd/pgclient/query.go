package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	querySelect string
	queryEq     []string
	queryOrder  string
	queryLimit  int
	queryOffset int
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Read rows from a table",
	Long:  `Read rows and print them as JSON, eg: pgclient query products --eq id=1 --order name.desc`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient()
		if err != nil {
			log.Fatal(err)
		}

		var columns []string
		if querySelect != "" {
			columns = strings.Split(querySelect, ",")
		}
		q := client.From(args[0]).Select(columns...)

		for _, pair := range queryEq {
			column, value, found := strings.Cut(pair, "=")
			if !found {
				log.Fatalf("invalid --eq %q, want column=value", pair)
			}
			q = q.Eq(column, value)
		}
		if queryOrder != "" {
			column := strings.TrimSuffix(strings.TrimSuffix(queryOrder, ".desc"), ".asc")
			q = q.Order(column, !strings.HasSuffix(queryOrder, ".desc"))
		}
		if queryLimit > 0 {
			q = q.Limit(queryLimit)
		}
		if queryOffset > 0 {
			q = q.Offset(queryOffset)
		}

		res := q.Execute(cmd.Context())
		if res.Err != nil {
			log.Fatalf("query: %v", res.Err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Data); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	queryCmd.Flags().StringVarP(&querySelect, "select", "s", "", "comma-separated columns, default all")
	queryCmd.Flags().StringArrayVar(&queryEq, "eq", nil, "equality filter column=value, repeatable")
	queryCmd.Flags().StringVar(&queryOrder, "order", "", "order by column[.asc|.desc]")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum rows to return")
	queryCmd.Flags().IntVar(&queryOffset, "offset", 0, "rows to skip")
	rootCmd.AddCommand(queryCmd)
}
