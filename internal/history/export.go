package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/datetime"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Snapshot is a serialized copy of a history, ready to be handed to a download.
type Snapshot struct {
	Name        string
	ContentType string
	Data        []byte
}

var csvHeader = []string{"kind", "operand1", "operand2", "operand3", "operand4", "resultDisplay", "timestamp", "favorite"}

// ExportSnapshot serializes the current history as JSON or CSV. The snapshot is
// named <family>-calculations-<YYYY-MM-DD>.<format> from the store's clock.
func (s *Store) ExportSnapshot(format string) (Snapshot, error) {
	if err := validation.ValidateExportFormat(format); err != nil {
		return Snapshot{}, err
	}

	entries := s.Entries()
	name := fmt.Sprintf("%s-calculations-%s.%s", s.family, datetime.ISODate(s.now()), format)

	switch format {
	case constants.ExportFormatCSV:
		data, err := encodeCSV(entries)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode csv snapshot: %w", err)
		}
		return Snapshot{Name: name, ContentType: "text/csv", Data: data}, nil
	default:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode json snapshot: %w", err)
		}
		return Snapshot{Name: name, ContentType: "application/json", Data: data}, nil
	}
}

func encodeCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			e.Kind, e.Operand1, e.Operand2, e.Operand3, e.Operand4, e.ResultDisplay,
			strconv.FormatInt(e.Timestamp, 10), strconv.FormatBool(e.Favorite),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
