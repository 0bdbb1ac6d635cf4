package receipts

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/tax"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
)

// BuildSale freezes a cart snapshot into a journal record. Lines copy the
// price and tax flag in effect at commit time.
func BuildSale(remoteSaleID int64, terminalID string, snap cart.Snapshot, committedAt time.Time) Sale {
	saleID := uuid.New()
	items := make([]SaleLineItem, len(snap.Items))
	for i, line := range snap.Items {
		lineTotals := tax.Compute([]tax.Line{{
			UnitPrice:     line.Product.Price,
			Quantity:      line.Quantity,
			SSTApplicable: line.Product.SSTApplicable,
		}})
		items[i] = SaleLineItem{
			ID:            uuid.New(),
			SaleID:        saleID,
			Position:      i,
			ProductID:     line.Product.ID,
			SKU:           line.Product.SKU,
			Name:          line.Product.Name,
			UnitPrice:     line.Product.Price,
			Quantity:      line.Quantity,
			SSTApplicable: line.Product.SSTApplicable,
			LineTotal:     lineTotals.Subtotal,
		}
	}
	return Sale{
		ID:           saleID,
		RemoteSaleID: remoteSaleID,
		TerminalID:   terminalID,
		Subtotal:     snap.Totals.Subtotal,
		SSTTax:       snap.Totals.SSTTax,
		GrandTotal:   snap.Totals.GrandTotal,
		CommittedAt:  committedAt,
		Items:        items,
	}
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

// Journal persists sales in the local database.
type Journal struct {
	db txRunner
}

func NewJournal(db txRunner) (*Journal, error) {
	if db == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &Journal{db: db}, nil
}

// Record writes the sale and its lines atomically.
func (j *Journal) Record(ctx context.Context, sale Sale) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("inserting sale: %w", err)
		}
		return nil
	})
}

// FindByID loads one sale with its line items.
func (j *Journal) FindByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	var sale Sale
	err := j.db.DB().WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&sale, "id = ?", id).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, fmt.Errorf("loading sale: %w", err)
	}
	return &sale, nil
}

// List returns the most recent sales, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var sales []Sale
	err := j.db.DB().WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("committed_at DESC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return sales, nil
}

// MarkPrinted stamps the first print time; reprints keep the original stamp.
func (j *Journal) MarkPrinted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := j.db.DB().WithContext(ctx).
		Model(&Sale{}).
		Where("id = ? AND printed_at IS NULL", id).
		Update("printed_at", at)
	if result.Error != nil {
		return fmt.Errorf("marking sale printed: %w", result.Error)
	}
	return nil
}
