package main

import (
	"fmt"
	"os"

	"github.com/MikolajKopec/openfoodfacts-mcp/mcp"
)

func main() {
	if err := mcp.Run(); err != nil {
		// Run may fail before the logger exists (bad config); stderr is
		// the only channel left.
		fmt.Fprintln(os.Stderr, "openfoodfacts-mcp:", err)
		os.Exit(1)
	}
}
