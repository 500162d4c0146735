package utils

import (
	"github.com/aerospike-community/asreader/app/api"
)

func MakeTestEndpoint() *api.TEndpoint {
	return &api.TEndpoint{Host: "localhost", Port: 3000}
}

// MakeTestSplit returns a valid scan split.
func MakeTestSplit() *api.TSplit {
	return &api.TSplit{
		Operation: api.EOperation_SCAN,
		Node:      "BB9020011AC4202",
		Endpoint:  MakeTestEndpoint(),
		Namespace: "test",
		Set:       "demo",
	}
}

// MakeTestRangeSplit returns a valid range query split over bin "value".
func MakeTestRangeSplit(begin, end int64) *api.TSplit {
	return &api.TSplit{
		Operation: api.EOperation_RANGE_QUERY,
		Node:      "BB9020011AC4202",
		Endpoint:  MakeTestEndpoint(),
		Namespace: "test",
		Set:       "demo",
		Range:     &api.TRangeFilter{Bin: "value", Begin: begin, End: end},
	}
}
