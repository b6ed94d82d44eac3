package main

import (
	"fmt"
	"os"
)

func main() {
	if e := rootCmd.Execute(); e != nil {
		fmt.Fprintln(os.Stderr, "error:", e)
		os.Exit(1)
	}
}
