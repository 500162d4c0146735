package reader

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/aerospike-community/asreader/app/api"
)

func endpointFromFlags(flags *pflag.FlagSet) (*api.TEndpoint, error) {
	host, err := flags.GetString(hostFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", hostFlag, err)
	}

	port, err := flags.GetUint32(portFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", portFlag, err)
	}

	return &api.TEndpoint{Host: host, Port: port}, nil
}

// rangeFromFlags returns nil when no bin was given.
func rangeFromFlags(flags *pflag.FlagSet) (*api.TRangeFilter, error) {
	bin, err := flags.GetString(binFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", binFlag, err)
	}

	if bin == "" {
		return nil, nil
	}

	begin, err := flags.GetInt64(beginFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", beginFlag, err)
	}

	end, err := flags.GetInt64(endFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", endFlag, err)
	}

	return &api.TRangeFilter{Bin: bin, Begin: begin, End: end}, nil
}

// splitTemplateFromFlags fills everything but the operation and the node.
func splitTemplateFromFlags(flags *pflag.FlagSet) (*api.TSplit, error) {
	endpoint, err := endpointFromFlags(flags)
	if err != nil {
		return nil, err
	}

	namespace, err := flags.GetString(namespaceFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", namespaceFlag, err)
	}

	set, err := flags.GetString(setFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", setFlag, err)
	}

	rng, err := rangeFromFlags(flags)
	if err != nil {
		return nil, err
	}

	return &api.TSplit{
		Endpoint:  endpoint,
		Namespace: namespace,
		Set:       set,
		Range:     rng,
	}, nil
}

func splitFromFlags(flags *pflag.FlagSet) (*api.TSplit, error) {
	split, err := splitTemplateFromFlags(flags)
	if err != nil {
		return nil, err
	}

	operation, err := flags.GetString(operationFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", operationFlag, err)
	}

	split.Operation, err = api.ParseOperation(operation)
	if err != nil {
		return nil, fmt.Errorf("parse %s flag: %w", operationFlag, err)
	}

	split.Node, err = flags.GetString(nodeFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", nodeFlag, err)
	}

	return split, nil
}
