package api

import (
	"fmt"
	"strings"
)

type EOperation int8

const (
	EOperation_UNSPECIFIED EOperation = iota
	EOperation_SCAN
	EOperation_RANGE_QUERY
)

var eOperationNames = map[EOperation]string{
	EOperation_UNSPECIFIED: "unspecified",
	EOperation_SCAN:        "scan",
	EOperation_RANGE_QUERY: "rangeQuery",
}

func (op EOperation) String() string {
	if name, ok := eOperationNames[op]; ok {
		return name
	}

	return fmt.Sprintf("EOperation(%d)", int8(op))
}

func (op EOperation) MarshalText() ([]byte, error) {
	if op == EOperation_UNSPECIFIED {
		return nil, fmt.Errorf("operation is not specified")
	}

	return []byte(op.String()), nil
}

func (op *EOperation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}

	*op = parsed

	return nil
}

// ParseOperation accepts the operation names used in split descriptors.
// "numrange" is kept as an alias of "rangeQuery".
func ParseOperation(s string) (EOperation, error) {
	switch strings.ToLower(s) {
	case "scan":
		return EOperation_SCAN, nil
	case "rangequery", "range_query", "numrange":
		return EOperation_RANGE_QUERY, nil
	default:
		return EOperation_UNSPECIFIED, fmt.Errorf("unknown operation '%s'", s)
	}
}

type TEndpoint struct {
	Host string `yaml:"host" json:"host"`
	Port uint32 `yaml:"port" json:"port"`
}

func (ep *TEndpoint) GetHost() string {
	if ep == nil {
		return ""
	}

	return ep.Host
}

func (ep *TEndpoint) GetPort() uint32 {
	if ep == nil {
		return 0
	}

	return ep.Port
}

// TRangeFilter selects records whose integer bin value lies in [Begin, End].
type TRangeFilter struct {
	Bin   string `json:"bin"`
	Begin int64  `json:"begin"`
	End   int64  `json:"end"`
}

// TSplit describes a single unit of work: one node of the cluster
// and the operation to run against it.
type TSplit struct {
	Operation EOperation    `json:"operation"`
	Node      string        `json:"node"`
	Endpoint  *TEndpoint    `json:"endpoint"`
	Namespace string        `json:"namespace"`
	Set       string        `json:"set"`
	Range     *TRangeFilter `json:"range,omitempty"`
}

func (s *TSplit) GetRange() *TRangeFilter {
	if s == nil {
		return nil
	}

	return s.Range
}

func (s *TSplit) GetEndpoint() *TEndpoint {
	if s == nil {
		return nil
	}

	return s.Endpoint
}

func (s *TSplit) String() string {
	if s == nil {
		return "<nil>"
	}

	out := fmt.Sprintf(
		"%v node=%s endpoint=%s:%d namespace=%s set=%s",
		s.Operation, s.Node, s.Endpoint.GetHost(), s.Endpoint.GetPort(), s.Namespace, s.Set)

	if r := s.Range; r != nil {
		out += fmt.Sprintf(" range=%s[%d,%d]", r.Bin, r.Begin, r.End)
	}

	return out
}
