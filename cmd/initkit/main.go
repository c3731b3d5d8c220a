// Command initkit inspects the settings an initkit process would start with.
package main

import (
	"os"
)

func main() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}
