package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

const recentResultsLimit = 5

// CustomerStatistics summarizes a customer's orders for the dashboard
type CustomerStatistics struct {
	TotalTests        int64               `json:"totalTests"`
	CompletedTests    int64               `json:"completedTests"`
	PendingPayments   int64               `json:"pendingPayments"`
	TotalParticipants int64               `json:"totalParticipants"`
	ActiveOrders      int64               `json:"activeOrders"`
	RecentResults     []*model.TestResult `json:"recentResults"`
}

// DashboardUsecase serves customer statistics and test results
type DashboardUsecase struct {
	store  repository.Store
	logger *zap.Logger
}

func NewDashboardUsecase(store repository.Store, logger *zap.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		store:  store,
		logger: logger,
	}
}

func (u *DashboardUsecase) CustomerStatistics(ctx context.Context, principal entity.Principal) (*CustomerStatistics, error) {
	stats, err := u.store.Orders().Stats(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	recent, err := u.store.Results().Recent(ctx, principal.UserID, recentResultsLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*model.TestResult{}
	}

	return &CustomerStatistics{
		TotalTests:        stats.Total,
		CompletedTests:    stats.Completed,
		PendingPayments:   stats.PendingPayment,
		TotalParticipants: stats.TotalParticipants,
		ActiveOrders:      stats.Active,
		RecentResults:     recent,
	}, nil
}

// ListResults pages through results of the principal's orders; super admins see all
func (u *DashboardUsecase) ListResults(ctx context.Context, principal entity.Principal, characterType string, params entity.PaginationParams) (*entity.Paginated[*model.TestResult], error) {
	params.Validate()

	filter := repository.ResultFilter{CharacterType: characterType}
	if !principal.IsSuperAdmin() {
		userID := principal.UserID
		filter.UserID = &userID
	}

	results, total, err := u.store.Results().List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return entity.NewPaginated(results, params, total), nil
}

func (u *DashboardUsecase) GetResult(ctx context.Context, principal entity.Principal, id uuid.UUID) (*model.TestResult, error) {
	result, err := u.store.Results().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, domainErrors.ErrResultNotFound
	}

	if principal.IsSuperAdmin() {
		return result, nil
	}
	if result.Participant == nil || result.Participant.Order == nil || result.Participant.Order.UserID != principal.UserID {
		return nil, domainErrors.ErrResultForbidden
	}
	return result, nil
}
