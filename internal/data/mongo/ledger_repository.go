package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/shared"
)

const (
	// AuditCollectionName is the name of the audit entry collection in MongoDB
	AuditCollectionName = "audit_entries"
)

// LedgerRepository implements the ledger.Repository interface for MongoDB
type LedgerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new MongoDB audit ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) ledger.Repository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new audit entry after checking for duplicates.
// Returns ErrDuplicateEntry if an entry with the same record ID exists.
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	collection := r.db.Collection(AuditCollectionName)

	// Check if entry already exists
	existingEntry, err := r.GetByRecordID(ctx, entry.RecordID)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound{}) {
		r.logger.Error("Failed to check for existing audit entry",
			"record_id", entry.RecordID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing audit entry: %w", err)
	}

	if existingEntry != nil {
		return ledger.ErrDuplicateEntry{RecordID: entry.RecordID}
	}

	// Insert the entry
	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create audit entry",
			"record_id", entry.RecordID.String(),
			"error", err)
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// GetByRecordID retrieves an audit entry by its record ID.
// Returns ErrEntryNotFound if no entry exists for the given record.
func (r *LedgerRepository) GetByRecordID(ctx context.Context, recordID uuid.UUID) (*ledger.Entry, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"record_id": recordID}
	var entry ledger.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrEntryNotFound{RecordID: recordID}
		}
		r.logger.Error("Failed to get audit entry",
			"record_id", recordID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}

	return &entry, nil
}

// GetByApartmentID retrieves paginated audit entries for an apartment.
// Results are sorted by creation time in descending order (newest first).
func (r *LedgerRepository) GetByApartmentID(ctx context.Context, apartmentID int64, limit, offset int) ([]*ledger.Entry, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"apartment_id": apartmentID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get audit entries",
			"apartment_id", apartmentID,
			"error", err)
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*ledger.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode audit entries",
			"apartment_id", apartmentID,
			"error", err)
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}

// CountByApartmentID counts the total number of audit entries for an apartment
func (r *LedgerRepository) CountByApartmentID(ctx context.Context, apartmentID int64) (int64, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"apartment_id": apartmentID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count audit entries",
			"apartment_id", apartmentID,
			"error", err)
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}

// UpdateStatus updates the entry's status, failure reason, and processed timestamp.
// Returns ErrEntryNotFound if the entry doesn't exist.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, recordID uuid.UUID, status shared.EntryStatus, reason string) error {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"record_id": recordID}
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update audit entry status",
			"record_id", recordID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update audit entry status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ledger.ErrEntryNotFound{RecordID: recordID}
	}

	return nil
}

// GetByTimeRange retrieves paginated audit entries within the specified time window.
// Results are sorted by creation time in descending order for recent-first access.
func (r *LedgerRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*ledger.Entry, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{
		"created_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get audit entries by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get audit entries by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*ledger.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode audit entries",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}
