// Command cabinetctl administers a cabinets store: schema, cabinets,
// document filing, grants and events. Every operation runs with full
// privileges and is recorded under the --actor user.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails
	closeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
