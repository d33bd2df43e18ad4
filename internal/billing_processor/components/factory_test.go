package components

import (
	"testing"

	"log/slog"

	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/config"
	"github.com/property-billing-ledger/internal/platform/persistence"
	"github.com/stretchr/testify/assert"
)

// We're reusing the mocks from other test files:
// MockApartmentRepo and friends from record_writer_test.go
// MockOutboxRepo from outbox_manager_test.go
// MockLedgerRepo from record_validator_test.go

func TestCreateProcessingService(t *testing.T) {
	mockPgDB := &persistence.PostgresDB{}
	repos := Repositories{
		Apartment:      &MockApartmentRepo{},
		Village:        &MockVillageRepo{},
		ServiceType:    &MockServiceTypeRepo{},
		Payment:        &MockPaymentRepo{},
		ServiceRequest: &MockServiceRequestRepo{},
		UtilityReading: &MockUtilityReadingRepo{},
		Outbox:         &MockOutboxRepo{},
		Ledger:         &MockLedgerRepo{},
	}
	logger := slog.Default()

	cfg := &config.Config{
		WorkerPool: config.WorkerPoolConfig{
			Size: 5,
		},
	}

	t.Run("creates worker pool service with valid config", func(t *testing.T) {
		processingService := CreateProcessingService(
			mockPgDB,
			repos,
			logger,
			cfg,
		)

		assert.NotNil(t, processingService)

		// Note: Type checking is done via interface implementation since we can't access concrete type
		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})

	t.Run("falls back to base service with invalid config", func(t *testing.T) {
		invalidCfg := &config.Config{
			WorkerPool: config.WorkerPoolConfig{
				Size: 0, // Invalid size
			},
		}

		processingService := CreateProcessingService(
			mockPgDB,
			repos,
			logger,
			invalidCfg,
		)

		assert.NotNil(t, processingService)

		// Note: Verify interface implementation as concrete type check is not possible
		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})
}
