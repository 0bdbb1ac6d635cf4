package receipts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
)

type testDB struct {
	conn *gorm.DB
}

func (t *testDB) DB() *gorm.DB { return t.conn }

func (t *testDB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.conn.WithContext(ctx).Transaction(fn)
}

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Sale{}, &SaleLineItem{}))

	journal, err := NewJournal(&testDB{conn: conn})
	require.NoError(t, err)
	return journal
}

func TestJournalRecordAndLoad(t *testing.T) {
	t.Parallel()

	journal := newTestJournal(t)
	ctx := context.Background()

	sale := BuildSale(100, "till-01", sampleSnapshot(), time.Now().UTC())
	require.NoError(t, journal.Record(ctx, sale))

	loaded, err := journal.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), loaded.RemoteSaleID)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, 0, loaded.Items[0].Position)
	assert.Equal(t, 1, loaded.Items[1].Position)
	assert.Equal(t, "26.20", loaded.GrandTotal.StringFixed(2))
}

func TestJournalListNewestFirst(t *testing.T) {
	t.Parallel()

	journal := newTestJournal(t)
	ctx := context.Background()

	older := BuildSale(1, "till-01", sampleSnapshot(), time.Now().Add(-time.Hour).UTC())
	newer := BuildSale(2, "till-01", sampleSnapshot(), time.Now().UTC())
	require.NoError(t, journal.Record(ctx, older))
	require.NoError(t, journal.Record(ctx, newer))

	sales, err := journal.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, int64(2), sales[0].RemoteSaleID)
}

func TestJournalFindMissing(t *testing.T) {
	t.Parallel()

	journal := newTestJournal(t)

	_, err := journal.FindByID(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestJournalMarkPrintedKeepsFirstStamp(t *testing.T) {
	t.Parallel()

	journal := newTestJournal(t)
	ctx := context.Background()

	sale := BuildSale(5, "till-01", sampleSnapshot(), time.Now().UTC())
	require.NoError(t, journal.Record(ctx, sale))

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, journal.MarkPrinted(ctx, sale.ID, first))
	require.NoError(t, journal.MarkPrinted(ctx, sale.ID, first.Add(time.Hour)))

	loaded, err := journal.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.PrintedAt)
	assert.True(t, loaded.PrintedAt.Equal(first))
}
