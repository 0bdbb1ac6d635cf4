package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

type journal interface {
	Record(ctx context.Context, sale Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	List(ctx context.Context, limit int) ([]Sale, error)
	MarkPrinted(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// Service combines the journal with the printer for the receipt endpoints.
type Service struct {
	journal  journal
	printer  Printer
	sequence sequencer
	logg     *logger.Logger
	timeNow  func() time.Time
}

// NewService wires the receipt surface. The sequence may be nil; sales are
// then journaled without a receipt number.
func NewService(j journal, printer Printer, sequence sequencer, logg *logger.Logger) (*Service, error) {
	if j == nil {
		return nil, fmt.Errorf("journal is required")
	}
	if printer == nil {
		return nil, fmt.Errorf("printer is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{journal: j, printer: printer, sequence: sequence, logg: logg, timeNow: time.Now}, nil
}

// Record journals a committed sale, stamping it with the next receipt
// number when a sequence is configured. A counter failure is logged and the
// sale is journaled unnumbered; losing the docket number must never lose
// the record.
func (s *Service) Record(ctx context.Context, sale *Sale) error {
	if s.sequence != nil {
		no, err := s.sequence.Next(ctx)
		if err != nil {
			s.logg.Error(ctx, "reserving receipt number", err)
		} else {
			sale.ReceiptNo = no
		}
	}
	return s.journal.Record(ctx, *sale)
}

// List returns recent sales for the receipts view.
func (s *Service) List(ctx context.Context, limit int) ([]Sale, error) {
	return s.journal.List(ctx, limit)
}

// Get loads one journaled sale.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.journal.FindByID(ctx, id)
}

// Print sends the sale to the printer and stamps the first print time.
func (s *Service) Print(ctx context.Context, sale Sale) error {
	if err := s.printer.Print(sale); err != nil {
		return fmt.Errorf("printing receipt: %w", err)
	}
	if err := s.journal.MarkPrinted(ctx, sale.ID, s.timeNow()); err != nil {
		// The paper is already out of the printer; log and move on.
		s.logg.Error(ctx, "stamping print time", err)
	}
	return nil
}

// Reprint loads a journaled sale and prints it again.
func (s *Service) Reprint(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.journal.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Print(ctx, *sale); err != nil {
		return nil, err
	}
	return sale, nil
}
