package output

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/aerospike-community/asreader/app/reader/paging"
)

var _ Writer = (*jsonLinesWriter)(nil)

type jsonRow struct {
	Namespace  string         `json:"namespace"`
	Set        string         `json:"set"`
	Digest     string         `json:"digest"`
	UserKey    any            `json:"user_key,omitempty"`
	Generation uint32         `json:"generation"`
	Expiration uint32         `json:"expiration"`
	Bins       map[string]any `json:"bins"`
}

// jsonLinesWriter emits one JSON document per record.
type jsonLinesWriter struct {
	buf       *bufio.Writer
	encoder   *json.Encoder
	totalRows int
	logger    *zap.Logger
}

func (w *jsonLinesWriter) Write(unit *paging.DataUnit) error {
	row := jsonRow{
		Namespace:  unit.Key.Namespace,
		Set:        unit.Key.SetName,
		Digest:     hex.EncodeToString(unit.Key.Digest),
		UserKey:    normalizeValue(unit.Key.UserKey),
		Generation: unit.Record.Generation,
		Expiration: unit.Record.Expiration,
		Bins:       normalizeBins(unit.Record.Bins),
	}

	if err := w.encoder.Encode(&row); err != nil {
		return fmt.Errorf("encode row %d: %w", w.totalRows, err)
	}

	w.totalRows++

	return nil
}

func (w *jsonLinesWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	w.logger.Debug("json lines written", zap.Int("rows", w.totalRows))

	return nil
}

func (w *jsonLinesWriter) TotalRows() int { return w.totalRows }

func newJSONLinesWriter(logger *zap.Logger, out io.Writer) *jsonLinesWriter {
	buf := bufio.NewWriter(out)

	return &jsonLinesWriter{
		buf:     buf,
		encoder: json.NewEncoder(buf),
		logger:  logger,
	}
}
