package main

import (
	"fmt"
	"os"

	_ "github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/analyze"
	_ "github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/parse"
	"github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/root"
)

func main() {
	if err := root.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
