package receipts

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tillpoint/pos-terminal/pkg/types"
)

const receiptWidth = 40

// Printer sends a rendered receipt to the print device.
type Printer interface {
	Print(sale Sale) error
}

// TextPrinter renders a fixed-width receipt onto a spool writer, typically
// the thermal printer's character device.
type TextPrinter struct {
	mu        sync.Mutex
	spool     io.Writer
	storeName string
	note      string
}

func NewTextPrinter(spool io.Writer, storeName, note string) (*TextPrinter, error) {
	if spool == nil {
		return nil, fmt.Errorf("spool writer is required")
	}
	return &TextPrinter{spool: spool, storeName: storeName, note: note}, nil
}

func (p *TextPrinter) Print(sale Sale) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.spool, Render(sale, p.storeName, p.note))
	return err
}

// Render produces the receipt document as fixed-width text.
func Render(sale Sale, storeName, note string) string {
	var b strings.Builder

	writeCentered(&b, storeName)
	writeCentered(&b, fmt.Sprintf("Terminal %s", sale.TerminalID))
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	if sale.ReceiptNo > 0 {
		b.WriteString(fmt.Sprintf("Receipt #%d\n", sale.ReceiptNo))
	}
	b.WriteString(fmt.Sprintf("Sale #%d\n", sale.RemoteSaleID))
	b.WriteString(sale.CommittedAt.Format("2006-01-02 15:04:05") + "\n")
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")

	for _, item := range sale.Items {
		b.WriteString(item.Name + "\n")
		left := fmt.Sprintf("  %d x %s", item.Quantity, types.MoneyString(item.UnitPrice))
		writeRow(&b, left, types.MoneyString(item.LineTotal))
	}

	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	writeRow(&b, "Subtotal", types.MoneyString(sale.Subtotal))
	writeRow(&b, "SST (6%)", types.MoneyString(sale.SSTTax))
	writeRow(&b, "TOTAL", types.MoneyString(sale.GrandTotal))
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")

	if note != "" {
		writeCentered(&b, note)
	}
	b.WriteString("\n")
	return b.String()
}

func writeRow(b *strings.Builder, left, right string) {
	pad := receiptWidth - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right + "\n")
}

func writeCentered(b *strings.Builder, text string) {
	if len(text) >= receiptWidth {
		b.WriteString(text + "\n")
		return
	}
	pad := (receiptWidth - len(text)) / 2
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}
