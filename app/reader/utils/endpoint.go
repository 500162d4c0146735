package utils

import (
	"fmt"

	"github.com/aerospike-community/asreader/app/api"
)

func EndpointToString(ep *api.TEndpoint) string {
	return fmt.Sprintf("%s:%d", ep.GetHost(), ep.GetPort())
}
