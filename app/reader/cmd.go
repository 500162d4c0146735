package reader

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Read a single split and print its records",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDump(cmd, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var SplitsCmd = &cobra.Command{
	Use:   "splits",
	Short: "List one split per cluster node",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSplits(cmd, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

const (
	configFlag    = "config"
	outputFlag    = "output"
	limitFlag     = "limit"
	operationFlag = "operation"
	nodeFlag      = "node"
	hostFlag      = "host"
	portFlag      = "port"
	namespaceFlag = "namespace"
	setFlag       = "set"
	binFlag       = "bin"
	beginFlag     = "begin"
	endFlag       = "end"
)

func addCommonFlags(flags *pflag.FlagSet) {
	flags.StringP(configFlag, "c", "", "path to config file, defaults are used when empty")
	flags.String(hostFlag, "localhost", "seed host of the cluster")
	flags.Uint32(portFlag, 3000, "seed port of the cluster")
	flags.StringP(namespaceFlag, "n", "", "namespace to read")
	flags.StringP(setFlag, "s", "", "set to read, the whole namespace when empty")
	flags.String(binFlag, "", "integer bin with a secondary index, enables range queries")
	flags.Int64(beginFlag, 0, "lower bound of the range filter, inclusive")
	flags.Int64(endFlag, 0, "upper bound of the range filter, inclusive")
}

func addDumpFlags(flags *pflag.FlagSet) {
	addCommonFlags(flags)
	flags.String(operationFlag, "scan", "operation to run: scan, rangeQuery (numrange)")
	flags.String(nodeFlag, "", "name of the node to read from")
	flags.StringP(outputFlag, "o", "", "output file, stdout when empty")
	flags.Uint64(limitFlag, 0, "write at most this many records, overrides read_limit of the config")
}

func init() {
	addDumpFlags(DumpCmd.Flags())
	addCommonFlags(SplitsCmd.Flags())
}
