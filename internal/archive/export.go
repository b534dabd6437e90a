package archive

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/filex"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// Format selects the shape of the exported artifact. The three formats are
// produced independently from the same slice; there is no shared
// intermediate representation.
type Format string

const (
	// FormatJSON is the full structured dump: all fields, nested.
	FormatJSON Format = "json"
	// FormatCSV is the flattened tabular transaction list.
	FormatCSV Format = "csv"
	// FormatDocument is a printable plain-text report.
	FormatDocument Format = "doc"
)

const exportDirName = "exports"

// ExportSlice writes every operational record older than cutoff to a file
// in the export directory and returns the file path. A slice with zero
// transactions and zero expenses fails with common.ErrEmptyData before any
// file is written, so a no-op export can never be mistaken for a backup.
func (e *Engine) ExportSlice(ctx context.Context, cutoff time.Time, format Format) (string, error) {
	data, err := e.store.OperationalOlderThan(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("export slice: %w", err)
	}

	if data.IsEmpty() {
		return "", fmt.Errorf("nothing to export before %s: %w",
			cutoff.Format("2006-01-02"), common.ErrEmptyData)
	}

	dir, err := filex.EnsureSubDir(exportDirName)
	if err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}

	name := fmt.Sprintf("archive_%s_%d", cutoff.Format("20060102"), time.Now().Unix())

	var path string
	switch format {
	case FormatJSON:
		path = filepath.Join(dir, name+".json")
		err = writeJSONDump(path, cutoff, data)
	case FormatCSV:
		path = filepath.Join(dir, name+".csv")
		err = writeCSVTable(path, data)
	case FormatDocument:
		path = filepath.Join(dir, name+".txt")
		err = writeDocument(path, cutoff, data)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}

	e.log.Info(ctx, "exported archive slice", "cutoff", cutoff, "format", string(format), "path", path)
	return path, nil
}

func writeJSONDump(path string, cutoff time.Time, data *models.OperationalData) error {
	dump := struct {
		Cutoff     time.Time               `json:"cutoff"`
		ExportedAt time.Time               `json:"exported_at"`
		Data       *models.OperationalData `json:"data"`
	}{Cutoff: cutoff, ExportedAt: time.Now().UTC(), Data: data}

	b, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dump: %w", err)
	}
	if err := os.WriteFile(path, b, 0o660); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeCSVTable(path string, data *models.OperationalData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "time", "total", "items", "status"}); err != nil {
		return err
	}
	for i := range data.Transactions {
		t := &data.Transactions[i]
		row := []string{
			t.ID,
			t.CreatedAt.Format(time.RFC3339),
			t.Total.String(),
			itemSummary(t.Items),
			t.PaymentStatus,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeDocument(path string, cutoff time.Time, data *models.OperationalData) error {
	var b strings.Builder

	fmt.Fprintf(&b, "ARCHIVED TRANSACTIONS (before %s)\n", cutoff.Format("2006-01-02"))
	fmt.Fprintf(&b, "exported %s\n\n", time.Now().Format("2006-01-02 15:04"))

	total := decimal.Zero
	for i := range data.Transactions {
		t := &data.Transactions[i]
		fmt.Fprintf(&b, "%-22s %-16s %10s  %s\n",
			t.CreatedAt.Format("2006-01-02 15:04"), t.ID, t.Total.String(), itemSummary(t.Items))
		total = total.Add(t.Total)
	}
	fmt.Fprintf(&b, "\n%d transactions, total %s\n", len(data.Transactions), total.String())

	if len(data.Expenses) > 0 {
		fmt.Fprintf(&b, "\nEXPENSES\n")
		for i := range data.Expenses {
			e := &data.Expenses[i]
			fmt.Fprintf(&b, "%-22s %10s  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.Amount.String(), e.Description)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o660); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func itemSummary(items []models.TransactionItem) string {
	parts := make([]string, 0, len(items))
	for i := range items {
		parts = append(parts, strconv.Itoa(items[i].Quantity)+"x "+items[i].Name)
	}
	return strings.Join(parts, "; ")
}
