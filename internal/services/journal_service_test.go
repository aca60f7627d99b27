package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayledger/backend/internal/ledger"
)

func TestJournalService_RecordSubmitted(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	journal := NewJournalService(db)

	rmock.Regexp().ExpectSet("journal:tx:0xbook", `\{.*"txHash":"0xbook".*"status":"pending".*\}`, 24*time.Hour).SetVal("OK")
	rmock.ExpectLPush("journal:account:"+guest, "0xbook").SetVal(1)
	rmock.ExpectLTrim("journal:account:"+guest, 0, 49).SetVal("OK")
	rmock.ExpectExpire("journal:account:"+guest, 24*time.Hour).SetVal(true)

	journal.RecordSubmitted(context.Background(), guest, SubmissionBooking, ledger.PendingTx{Hash: "0xbook"})

	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestJournalService_RecordVerdict(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	journal := NewJournalService(db)

	stored := JournalEntry{
		ID:          "entry-1",
		Account:     guest,
		Kind:        SubmissionBooking,
		TxHash:      "0xbook",
		Status:      "pending",
		SubmittedAt: 1700000000,
	}
	storedJSON, err := json.Marshal(stored)
	require.NoError(t, err)

	updated := stored
	updated.Status = string(ledger.StatusRejected)
	updated.Reason = "Room not available"
	updatedJSON, err := json.Marshal(updated)
	require.NoError(t, err)

	rmock.ExpectGet("journal:tx:0xbook").SetVal(string(storedJSON))
	rmock.ExpectSet("journal:tx:0xbook", updatedJSON, 24*time.Hour).SetVal("OK")

	journal.RecordVerdict(context.Background(), ledger.PendingTx{Hash: "0xbook"},
		&ledger.Receipt{Hash: "0xbook", Status: ledger.StatusRejected, Reason: "Room not available"})

	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestJournalService_HistoryFor(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	journal := NewJournalService(db)

	entry := JournalEntry{ID: "entry-1", Account: guest, Kind: SubmissionApprove, TxHash: "0xgrant", Status: "confirmed", SubmittedAt: 1700000000}
	entryJSON, err := json.Marshal(entry)
	require.NoError(t, err)

	rmock.ExpectLRange("journal:account:"+guest, 0, 49).SetVal([]string{"0xgrant", "0xexpired"})
	rmock.ExpectGet("journal:tx:0xgrant").SetVal(string(entryJSON))
	rmock.ExpectGet("journal:tx:0xexpired").RedisNil()

	entries, err := journal.HistoryFor(context.Background(), guest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TxHash("0xgrant"), entries[0].TxHash)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestJournalService_NoopWithoutRedis(t *testing.T) {
	journal := NewJournalService(nil)

	journal.RecordSubmitted(context.Background(), guest, SubmissionBooking, ledger.PendingTx{Hash: "0xbook"})
	journal.RecordVerdict(context.Background(), ledger.PendingTx{Hash: "0xbook"}, confirmed("0xbook"))

	entries, err := journal.HistoryFor(context.Background(), guest)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	// A nil service behaves the same; orchestrators may run without a journal.
	var none *JournalService
	none.RecordSubmitted(context.Background(), guest, SubmissionBooking, ledger.PendingTx{Hash: "0xbook"})
}
