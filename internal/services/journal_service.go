package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/stayledger/backend/internal/ledger"
)

// SubmissionKind labels what a journaled transaction was trying to do.
type SubmissionKind string

const (
	SubmissionApprove      SubmissionKind = "approve"
	SubmissionBooking      SubmissionKind = "booking"
	SubmissionAvailability SubmissionKind = "availability"
	SubmissionReview       SubmissionKind = "review"
	SubmissionAddRoom      SubmissionKind = "add_room"
)

// JournalEntry records one transaction this client submitted. The journal is a
// display-only history of our own in-flight work; it is never consulted as a
// cache of ledger state, and losing it loses nothing authoritative.
type JournalEntry struct {
	ID          string         `json:"id"`
	Account     string         `json:"account"`
	Kind        SubmissionKind `json:"kind"`
	TxHash      ledger.TxHash  `json:"txHash"`
	Status      string         `json:"status"`
	Reason      string         `json:"reason,omitempty"`
	SubmittedAt int64          `json:"submittedAt"`
}

const (
	journalTTL        = 24 * time.Hour
	journalMaxEntries = 50
)

// JournalService keeps the submission journal in redis. A nil redis client
// degrades to a no-op, same as the rest of the system when redis is absent.
type JournalService struct {
	redis *redis.Client
}

func NewJournalService(rdb *redis.Client) *JournalService {
	return &JournalService{redis: rdb}
}

func txKey(hash ledger.TxHash) string  { return "journal:tx:" + string(hash) }
func accountKey(account string) string { return "journal:account:" + account }

// RecordSubmitted journals a freshly submitted transaction as pending.
func (j *JournalService) RecordSubmitted(ctx context.Context, account string, kind SubmissionKind, tx ledger.PendingTx) {
	if j == nil || j.redis == nil {
		return
	}

	entry := JournalEntry{
		ID:          uuid.NewString(),
		Account:     account,
		Kind:        kind,
		TxHash:      tx.Hash,
		Status:      "pending",
		SubmittedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("journal: marshal entry for %s: %v", tx.Hash, err)
		return
	}

	if err := j.redis.Set(ctx, txKey(tx.Hash), data, journalTTL).Err(); err != nil {
		log.Printf("journal: record submission %s: %v", tx.Hash, err)
		return
	}
	if err := j.redis.LPush(ctx, accountKey(account), string(tx.Hash)).Err(); err != nil {
		log.Printf("journal: index submission %s: %v", tx.Hash, err)
		return
	}
	j.redis.LTrim(ctx, accountKey(account), 0, journalMaxEntries-1)
	j.redis.Expire(ctx, accountKey(account), journalTTL)
}

// RecordVerdict updates a journaled transaction with the ledger's verdict.
func (j *JournalService) RecordVerdict(ctx context.Context, tx ledger.PendingTx, receipt *ledger.Receipt) {
	if j == nil || j.redis == nil || receipt == nil {
		return
	}

	data, err := j.redis.Get(ctx, txKey(tx.Hash)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("journal: load entry %s: %v", tx.Hash, err)
		}
		return
	}

	var entry JournalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("journal: decode entry %s: %v", tx.Hash, err)
		return
	}
	entry.Status = string(receipt.Status)
	entry.Reason = receipt.Reason

	updated, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := j.redis.Set(ctx, txKey(tx.Hash), updated, journalTTL).Err(); err != nil {
		log.Printf("journal: update entry %s: %v", tx.Hash, err)
	}
}

// HistoryFor returns the journaled submissions for an account, newest first.
// Entries whose backing record already expired are skipped.
func (j *JournalService) HistoryFor(ctx context.Context, account string) ([]JournalEntry, error) {
	if j == nil || j.redis == nil {
		return []JournalEntry{}, nil
	}

	hashes, err := j.redis.LRange(ctx, accountKey(account), 0, journalMaxEntries-1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	entries := make([]JournalEntry, 0, len(hashes))
	for _, hash := range hashes {
		data, err := j.redis.Get(ctx, txKey(ledger.TxHash(hash))).Bytes()
		if err != nil {
			continue
		}
		var entry JournalEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
