package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blocksearch/internal/admin"
)

func main() {
	if err := admin.NewRootCommand(admin.OpenBackend).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "usersctl:", err)
		os.Exit(1)
	}
}
