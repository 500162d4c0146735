package reader

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/aerospike-community/asreader/app/api"
)

func parseDumpFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	addDumpFlags(flags)
	require.NoError(t, flags.Parse(args))

	return flags
}

func TestSplitFromFlags(t *testing.T) {
	t.Run("scan", func(t *testing.T) {
		flags := parseDumpFlags(t, "--node", "BB9020011AC4202", "-n", "test", "-s", "demo")

		split, err := splitFromFlags(flags)
		require.NoError(t, err)
		require.Equal(t, &api.TSplit{
			Operation: api.EOperation_SCAN,
			Node:      "BB9020011AC4202",
			Endpoint:  &api.TEndpoint{Host: "localhost", Port: 3000},
			Namespace: "test",
			Set:       "demo",
		}, split)
	})

	t.Run("range query", func(t *testing.T) {
		flags := parseDumpFlags(t,
			"--operation", "numrange",
			"--host", "10.0.0.1", "--port", "3100",
			"-n", "test",
			"--bin", "value", "--begin", "-10", "--end", "10")

		split, err := splitFromFlags(flags)
		require.NoError(t, err)
		require.Equal(t, &api.TSplit{
			Operation: api.EOperation_RANGE_QUERY,
			Endpoint:  &api.TEndpoint{Host: "10.0.0.1", Port: 3100},
			Namespace: "test",
			Range:     &api.TRangeFilter{Bin: "value", Begin: -10, End: 10},
		}, split)
	})

	t.Run("unknown operation", func(t *testing.T) {
		flags := parseDumpFlags(t, "--operation", "query")

		_, err := splitFromFlags(flags)
		require.Error(t, err)
	})
}

func TestSplitTemplateFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("splits", pflag.ContinueOnError)
	addCommonFlags(flags)
	require.NoError(t, flags.Parse([]string{"-n", "test"}))

	template, err := splitTemplateFromFlags(flags)
	require.NoError(t, err)
	require.Equal(t, api.EOperation_UNSPECIFIED, template.Operation)
	require.Nil(t, template.Range)

	// operation flags are not registered for the splits command
	_, err = splitFromFlags(flags)
	require.Error(t, err)
}
