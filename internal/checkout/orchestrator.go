package checkout

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/receipts"
	"github.com/tillpoint/pos-terminal/pkg/enums"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/metrics"
)

type saleCommitter interface {
	CommitSale(ctx context.Context, req CommitRequest) (*CommitResult, error)
}

type receiptSink interface {
	Record(ctx context.Context, sale *receipts.Sale) error
	Print(ctx context.Context, sale receipts.Sale) error
}

type catalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Status is the orchestrator's externally visible state.
type Status struct {
	State     enums.CheckoutState `json:"state"`
	LastError string              `json:"last_error,omitempty"`
}

// Orchestrator runs checkout end to end: commit to the ledger, journal the
// receipt, clear the cart, refresh stock and schedule the print. A failed
// commit leaves the cart exactly as it was.
type Orchestrator struct {
	cart       *cart.Store
	committer  saleCommitter
	receipts   receiptSink
	catalog    catalogRefresher
	terminalID string
	printDelay time.Duration
	logg       *logger.Logger
	metrics    *metrics.TerminalMetrics

	inFlight atomic.Bool
	timeNow  func() time.Time
	schedule func(d time.Duration, fn func())

	mu     sync.Mutex
	status Status
}

func NewOrchestrator(
	cartStore *cart.Store,
	committer saleCommitter,
	receiptSvc receiptSink,
	catalogSvc catalogRefresher,
	terminalID string,
	printDelay time.Duration,
	logg *logger.Logger,
	m *metrics.TerminalMetrics,
) (*Orchestrator, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if committer == nil {
		return nil, fmt.Errorf("sale committer is required")
	}
	if receiptSvc == nil {
		return nil, fmt.Errorf("receipt service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Orchestrator{
		cart:       cartStore,
		committer:  committer,
		receipts:   receiptSvc,
		catalog:    catalogSvc,
		terminalID: terminalID,
		printDelay: printDelay,
		logg:       logg,
		metrics:    m,
		timeNow:    time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		status: Status{State: enums.CheckoutStateIdle},
	}, nil
}

// Status returns the current checkout lifecycle state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) setStatus(state enums.CheckoutState, lastError string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = Status{State: state, LastError: lastError}
}

// Checkout commits the current cart. Only one attempt may be in flight at
// a time; concurrent calls are rejected rather than queued so the same
// cart can never be sold twice.
func (o *Orchestrator) Checkout(ctx context.Context) (*receipts.Sale, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer o.inFlight.Store(false)

	snap := o.cart.Snapshot()
	if snap.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	o.setStatus(enums.CheckoutStateSubmitting, "")

	req := CommitRequest{TerminalID: o.terminalID, Items: make([]CommitItem, len(snap.Items))}
	for i, line := range snap.Items {
		req.Items[i] = CommitItem{ProductID: line.Product.ID, Quantity: line.Quantity}
	}

	started := o.timeNow()
	result, err := o.committer.CommitSale(ctx, req)
	o.metrics.ObserveCommitDuration(o.timeNow().Sub(started))
	if err != nil {
		// The cart is untouched; the operator can retry or amend it.
		o.metrics.IncCheckout("failed")
		message := "sale was not recorded"
		if coded := pkgerrors.As(err); coded != nil {
			message = coded.Message()
		}
		o.setStatus(enums.CheckoutStateFailed, message)
		o.logg.Error(ctx, "sale commit failed", err)
		return nil, err
	}

	committedAt := o.timeNow()
	sale := receipts.BuildSale(result.SaleID, o.terminalID, snap, committedAt)

	if err := o.receipts.Record(ctx, &sale); err != nil {
		// The ledger already has the sale; losing the local journal copy
		// must not fail the checkout.
		o.logg.Error(ctx, "journaling receipt", err)
	}

	o.cart.Clear()
	o.setStatus(enums.CheckoutStateCommitted, "")
	o.metrics.IncCheckout("committed")

	if o.catalog != nil {
		go o.refreshCatalog(ctx)
	}
	o.schedulePrint(sale)

	return &sale, nil
}

func (o *Orchestrator) refreshCatalog(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := o.catalog.Refresh(refreshCtx); err != nil {
		o.logg.Error(refreshCtx, "refreshing catalog after sale", err)
	}
}

// schedulePrint fires the receipt print exactly once after the configured
// delay, giving the register screen time to show the committed sale first.
func (o *Orchestrator) schedulePrint(sale receipts.Sale) {
	o.schedule(o.printDelay, func() {
		printCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := o.receipts.Print(printCtx, sale); err != nil {
			o.logg.Error(printCtx, "printing receipt", err)
		}
	})
}
