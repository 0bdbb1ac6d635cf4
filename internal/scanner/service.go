package scanner

import (
	"context"
	"fmt"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/pkg/enums"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/metrics"
)

type productLookup interface {
	FindByCode(ctx context.Context, code string) (*catalog.Product, error)
}

type cartAdder interface {
	Add(product catalog.Product) cart.Snapshot
}

// Result reports what happened to one decoded barcode.
type Result struct {
	Code    string
	Outcome enums.ScanOutcome
	Product *catalog.Product
	Message string
}

// Service wires decoded barcodes to catalog lookups and the cart.
type Service struct {
	decoder *Decoder
	lookup  productLookup
	cart    cartAdder
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
}

func NewService(decoder *Decoder, lookup productLookup, cartStore cartAdder, logg *logger.Logger, m *metrics.TerminalMetrics) (*Service, error) {
	if decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("product lookup is required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{decoder: decoder, lookup: lookup, cart: cartStore, logg: logg, metrics: m}, nil
}

// ProcessEvents runs a batch of keystrokes through the decoder and resolves
// every completed barcode. A lookup miss or failure never aborts the batch;
// each scan reports its own outcome.
func (s *Service) ProcessEvents(ctx context.Context, events []KeyEvent) []Result {
	var results []Result
	for _, ev := range events {
		code, ok := s.decoder.Handle(ev)
		if !ok {
			continue
		}
		s.metrics.IncScan()
		results = append(results, s.resolve(ctx, code))
	}
	return results
}

func (s *Service) resolve(ctx context.Context, code string) Result {
	scanCtx := s.logg.WithField(ctx, "barcode", code)

	product, err := s.lookup.FindByCode(ctx, code)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			s.metrics.IncLookup(enums.ScanOutcomeNotFound.String())
			s.logg.Warn(scanCtx, "scanned code not in catalog")
			return Result{
				Code:    code,
				Outcome: enums.ScanOutcomeNotFound,
				Message: fmt.Sprintf("item not found: %s", code),
			}
		}
		s.metrics.IncLookup(enums.ScanOutcomeError.String())
		s.logg.Error(scanCtx, "catalog lookup failed", err)
		return Result{
			Code:    code,
			Outcome: enums.ScanOutcomeError,
			Message: "catalog lookup failed",
		}
	}

	s.metrics.IncLookup(enums.ScanOutcomeAdded.String())
	s.cart.Add(*product)
	return Result{Code: code, Outcome: enums.ScanOutcomeAdded, Product: product}
}
