package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerospike-community/asreader/app/reader"
)

var rootCmd = &cobra.Command{
	Use:   "asreader",
	Short: "Pull-style reader of Aerospike scans and range queries",
}

func init() {
	rootCmd.AddCommand(reader.DumpCmd)
	rootCmd.AddCommand(reader.SplitsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
