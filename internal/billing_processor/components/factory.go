package components

import (
	"log/slog"

	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/config"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/outbox"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// Repositories bundles the persistence dependencies of the processing service.
type Repositories struct {
	Apartment      property.ApartmentRepository
	Village        property.VillageRepository
	ServiceType    property.ServiceTypeRepository
	Payment        billing.PaymentRepository
	ServiceRequest billing.ServiceRequestRepository
	UtilityReading billing.UtilityReadingRepository
	Outbox         outbox.Repository
	Ledger         ledger.Repository
}

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	pgDB *persistence.PostgresDB,
	repos Repositories,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewRecordValidator(repos.Ledger, logger)
	recordWriter := NewRecordWriter(
		repos.Apartment,
		repos.Village,
		repos.ServiceType,
		repos.Payment,
		repos.ServiceRequest,
		repos.UtilityReading,
		logger,
	)
	outboxManager := NewOutboxManager(repos.Outbox, logger)
	failureRecorder := NewFailureRecorder(repos.Ledger, logger)

	baseService := service.NewProcessingService(
		pgDB,
		validator,
		recordWriter,
		outboxManager,
		failureRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
