// Package importer loads planning orders from CSV exports. De-duplication
// against rows earlier in the same file happens here, upstream of the core.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"fitlot/internal/logging"
	"fitlot/internal/routing"
	"fitlot/internal/store"
)

// Importer loads planning orders from CSV exports into the shared store.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

// New constructs an Importer.
func New(st *store.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{store: st, logger: logging.NewComponentLogger(logger, "importer")}
}

// Summary reports what an import run did.
type Summary struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// Column aliases accepted in the header row. Planning exports come from
// several office tools and are not consistent about naming.
var headerAliases = map[string]string{
	"orderid":      "order_id",
	"order_id":     "order_id",
	"order":        "order_id",
	"machine":      "machine",
	"item":         "item",
	"artikel":      "item",
	"plan":         "plan",
	"aantal":       "plan",
	"deliverydate": "delivery_date",
	"leverdatum":   "delivery_date",
	"drawing":      "drawing",
	"tekening":     "drawing",
	"project":      "project",
	"status":       "status",
}

// ImportFile loads orders from a CSV file on disk.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()
	return i.Import(ctx, file)
}

// Import reads CSV order rows and upserts them. Rows duplicating an
// orderId earlier in the same file are skipped; existing orders are
// updated in place, so re-importing the same export is harmless.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Summary, error) {
	buffered := bufio.NewReader(r)
	sample, _ := buffered.Peek(4096)

	var source io.Reader = buffered
	if !utf8.Valid(trimToRune(sample)) {
		// Office exports on the shop terminals are Windows-1252.
		source = transform.NewReader(buffered, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(source)
	reader.Comma = sniffDelimiter(sample)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	seen := make(map[string]struct{})
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		order, err := parseOrder(columns, record)
		if err != nil {
			i.logger.WarnContext(ctx, "import row skipped",
				logging.Int("row", line),
				logging.Error(err),
			)
			summary.Skipped++
			continue
		}
		if _, dup := seen[order.OrderID]; dup {
			summary.Duplicates++
			continue
		}
		seen[order.OrderID] = struct{}{}

		if _, err := i.store.UpsertOrder(ctx, order); err != nil {
			return summary, fmt.Errorf("row %d: %w", line, err)
		}
		summary.Imported++
	}

	i.logger.InfoContext(ctx, "orders imported",
		logging.Int("imported", summary.Imported),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func mapHeader(header []string) (map[int]string, error) {
	columns := make(map[int]string, len(header))
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if canonical, ok := headerAliases[name]; ok {
			columns[idx] = canonical
		}
	}
	for _, column := range columns {
		if column == "order_id" {
			return columns, nil
		}
	}
	return nil, fmt.Errorf("header has no order id column: %v", header)
}

func parseOrder(columns map[int]string, record []string) (*store.Order, error) {
	order := &store.Order{}
	for idx, column := range columns {
		if idx >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[idx])
		switch column {
		case "order_id":
			order.OrderID = value
		case "machine":
			order.Machine = strings.ToUpper(value)
		case "item":
			order.Item = value
		case "plan":
			if value == "" {
				continue
			}
			plan, err := strconv.Atoi(value)
			if err != nil || plan < 0 {
				return nil, fmt.Errorf("plan %q is not a non-negative integer", value)
			}
			order.Plan = plan
		case "delivery_date":
			order.DeliveryDate = value
		case "drawing":
			order.Drawing = value
		case "project":
			order.Project = value
		case "status":
			order.Status = value
		}
	}
	if order.OrderID == "" {
		return nil, fmt.Errorf("missing order id")
	}
	order.Classification = routing.Classify(order.Item)
	return order, nil
}

// sniffDelimiter picks comma or semicolon based on the first line. Dutch
// Excel exports use semicolons.
func sniffDelimiter(sample []byte) rune {
	firstLine := sample
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		firstLine = sample[:idx]
	}
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		return ';'
	}
	return ','
}

// trimToRune drops a trailing partial UTF-8 sequence from a peeked sample
// so that validity checks do not misfire on the cut point.
func trimToRune(sample []byte) []byte {
	for len(sample) > 0 {
		r, size := utf8.DecodeLastRune(sample)
		if r != utf8.RuneError || size != 1 {
			return sample
		}
		sample = sample[:len(sample)-1]
	}
	return sample
}
