package output

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
	"github.com/aerospike-community/asreader/app/reader/datasource"
	"github.com/aerospike-community/asreader/app/reader/paging"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

func TestJSONLinesWriter(t *testing.T) {
	var buf bytes.Buffer

	cfg := &config.TOutputConfig{Format: config.EOutputFormat_JSON}

	writer, err := NewWriter(utils.NewTestLogger(t), cfg, &buf, nil)
	require.NoError(t, err)

	results := datasource.MakeTestResults(3)
	for _, res := range results {
		unit := paging.NewDataUnit(res.Key, res.Record)
		require.NoError(t, writer.Write(&unit))
	}

	require.NoError(t, writer.Close())
	require.Equal(t, 3, writer.TotalRows())

	scanner := bufio.NewScanner(&buf)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	require.NoError(t, scanner.Err())
	require.Len(t, lines, 3)

	for i, line := range lines {
		expected := fmt.Sprintf(
			`{"namespace":"test","set":"demo","digest":"%02x%02xabcd","user_key":%d,`+
				`"generation":%d,"expiration":%d,"bins":{"value":%d,"name":"record_%d"}}`,
			i>>8, i&0xFF, i, i%7+1, 3600+i, i, i)

		require.JSONEq(t, expected, line)
	}
}

func TestJSONLinesWriterNestedValues(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(utils.NewTestLogger(t), &config.TOutputConfig{Format: config.EOutputFormat_JSON}, &buf, nil)
	require.NoError(t, err)

	unit := paging.DataUnit{
		Key: api.Key{Namespace: "test", SetName: "demo", Digest: []byte{0x01}},
		Record: api.Record{
			Bins: map[string]any{
				"map":  map[any]any{1: "one", "two": []any{int64(2), map[any]any{true: nil}}},
				"list": []any{"a", 1.5},
			},
		},
	}

	require.NoError(t, writer.Write(&unit))
	require.NoError(t, writer.Close())

	require.JSONEq(t,
		`{"namespace":"test","set":"demo","digest":"01","generation":0,"expiration":0,`+
			`"bins":{"map":{"1":"one","two":[2,{"true":null}]},"list":["a",1.5]}}`,
		buf.String())
}

func TestJSONLinesWriterNonFiniteFloats(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(utils.NewTestLogger(t), &config.TOutputConfig{Format: config.EOutputFormat_JSON}, &buf, nil)
	require.NoError(t, err)

	unit := paging.DataUnit{
		Key: api.Key{Namespace: "test", SetName: "demo", Digest: []byte{0x02}},
		Record: api.Record{
			Bins: map[string]any{"f": math.NaN(), "list": []any{math.Inf(-1), 0.5}},
		},
	}
	require.NoError(t, writer.Write(&unit))

	bad := paging.DataUnit{Record: api.Record{Bins: map[string]any{"ch": make(chan int)}}}
	require.Error(t, writer.Write(&bad))

	require.NoError(t, writer.Close())
	require.Equal(t, 1, writer.TotalRows())

	require.JSONEq(t,
		`{"namespace":"test","set":"demo","digest":"02","generation":0,"expiration":0,`+
			`"bins":{"f":"NaN","list":["-Inf",0.5]}}`,
		buf.String())
}
