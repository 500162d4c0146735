package output

import (
	"github.com/aerospike-community/asreader/app/reader/paging"
)

// Writer serializes records pulled from the reader.
type Writer interface {
	// Write appends a single record; it may be buffered until Close
	Write(unit *paging.DataUnit) error
	// Flushes buffered records and writes the trailer, if any
	Close() error
	// Number of records accepted so far
	TotalRows() int
}
