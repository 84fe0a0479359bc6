package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/config"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

// Period presets accepted by the statistics and report endpoints.
const (
	PeriodMonth     = "month"
	PeriodYear      = "year"
	PeriodSixMonths = "6months"
	PeriodAll       = "all"
)

const clientTopOwnersLimit = 5

// StatisticsRepository describes the aggregate queries StatisticsService needs.
type StatisticsRepository interface {
	CountClients(ctx context.Context) (int, error)
	WorkItemTotals(ctx context.Context, scope models.StatsScope) (*models.WorkItemTotals, error)
	DeliverableTotals(ctx context.Context, scope models.StatsScope) (*models.DeliverableTotals, error)
	SocialPostTotals(ctx context.Context, scope models.StatsScope) (*models.SocialPostTotals, error)
	CountRevisions(ctx context.Context, scope models.StatsScope) (int, error)
	WorkTypeCounts(ctx context.Context, scope models.StatsScope) ([]models.KeyCount, error)
	DeliverableStatusCounts(ctx context.Context, scope models.StatsScope) ([]models.KeyCount, error)
	TopOwners(ctx context.Context, scope models.StatsScope, limit int) ([]models.OwnerCount, error)
	DailyWorkItemCounts(ctx context.Context, from, to time.Time) ([]models.KeyCount, error)
	ClientSummaries(ctx context.Context, rng models.DateRange) ([]models.ClientSummary, error)
	CountFollowUpsDue(ctx context.Context, today time.Time) (int, error)
}

// StatisticsService derives dashboard and per-client figures. Every call reads the store; nothing is cached.
type StatisticsService struct {
	repo    StatisticsRepository
	clients clientReader
	metrics *MetricsService
	cfg     config.StatisticsConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(repo StatisticsRepository, clients clientReader, metrics *MetricsService, cfg config.StatisticsConfig, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DailyWindowDays <= 0 {
		cfg.DailyWindowDays = 30
	}
	if cfg.TopOwnersLimit <= 0 {
		cfg.TopOwnersLimit = 10
	}
	if cfg.DashboardOwnersLimit <= 0 {
		cfg.DashboardOwnersLimit = 5
	}
	return &StatisticsService{repo: repo, clients: clients, metrics: metrics, cfg: cfg, logger: logger, now: time.Now}
}

// PeriodRange turns a period preset into a date range relative to now. An empty period means month.
func PeriodRange(period string, now time.Time) (models.DateRange, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var from time.Time
	switch period {
	case "", PeriodMonth:
		from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		from = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case PeriodSixMonths:
		from = day.AddDate(0, 0, -180)
	case PeriodAll:
		return models.DateRange{}, nil
	default:
		return models.DateRange{}, appErrors.Validation("period", "must be month, year, 6months or all")
	}
	return models.DateRange{From: &from}, nil
}

// Period resolves a preset against the service clock.
func (s *StatisticsService) Period(period string) (models.DateRange, error) {
	return PeriodRange(period, s.now())
}

// Dashboard returns the global overview.
func (s *StatisticsService) Dashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	defer s.observe("dashboard", time.Now())
	day := today(s.now)
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

	clients, err := s.repo.CountClients(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	all, err := s.repo.WorkItemTotals(ctx, models.StatsScope{})
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	month, err := s.repo.WorkItemTotals(ctx, models.StatsScope{Range: models.DateRange{From: &monthStart}})
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	deliverables, err := s.repo.DeliverableTotals(ctx, models.StatsScope{})
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	posts, err := s.repo.SocialPostTotals(ctx, models.StatsScope{})
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	followUps, err := s.repo.CountFollowUpsDue(ctx, day)
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}
	owners, err := s.repo.TopOwners(ctx, models.StatsScope{}, s.cfg.DashboardOwnersLimit)
	if err != nil {
		return nil, internalError(err, "failed to load dashboard")
	}

	return &models.DashboardMetrics{
		TotalClients:         clients,
		WorkItemsThisMonth:   month.Count,
		ApprovedDeliverables: deliverables.Approved,
		TotalHours:           models.MinutesToHours(all.Minutes),
		HoursThisMonth:       models.MinutesToHours(month.Minutes),
		ReelsCount:           posts.Reels,
		PendingDeliverables:  deliverables.Pending,
		FollowUpsDue:         followUps,
		TopOwners:            nonNilOwners(owners),
	}, nil
}

// WorkTypeDistribution counts work items per activity type within rng.
func (s *StatisticsService) WorkTypeDistribution(ctx context.Context, rng models.DateRange) (models.Distribution, error) {
	defer s.observe("work_types", time.Now())
	rows, err := s.repo.WorkTypeCounts(ctx, models.StatsScope{Range: rng})
	if err != nil {
		return nil, internalError(err, "failed to load work type distribution")
	}
	return models.ToDistribution(rows), nil
}

// DailyWorkItemCounts counts work items per day over the last days days, keyed YYYY-MM-DD.
func (s *StatisticsService) DailyWorkItemCounts(ctx context.Context, days int) (models.Distribution, error) {
	defer s.observe("daily_work_items", time.Now())
	if days <= 0 {
		days = s.cfg.DailyWindowDays
	}
	to := today(s.now)
	from := to.AddDate(0, 0, -days)
	rows, err := s.repo.DailyWorkItemCounts(ctx, from, to)
	if err != nil {
		return nil, internalError(err, "failed to load daily work item counts")
	}
	return models.ToDistribution(rows), nil
}

// TopOwners returns the people with the most work items.
func (s *StatisticsService) TopOwners(ctx context.Context, limit int) ([]models.OwnerCount, error) {
	defer s.observe("top_owners", time.Now())
	if limit <= 0 {
		limit = s.cfg.TopOwnersLimit
	}
	owners, err := s.repo.TopOwners(ctx, models.StatsScope{}, limit)
	if err != nil {
		return nil, internalError(err, "failed to load top owners")
	}
	return nonNilOwners(owners), nil
}

// DeliverableStatusDistribution counts deliverables per status.
func (s *StatisticsService) DeliverableStatusDistribution(ctx context.Context) (models.Distribution, error) {
	defer s.observe("deliverable_statuses", time.Now())
	rows, err := s.repo.DeliverableStatusCounts(ctx, models.StatsScope{})
	if err != nil {
		return nil, internalError(err, "failed to load deliverable statuses")
	}
	return models.ToDistribution(rows), nil
}

// ClientMetrics aggregates one client's activity within rng.
func (s *StatisticsService) ClientMetrics(ctx context.Context, clientID int64, rng models.DateRange) (*models.ClientMetrics, error) {
	if s.clients != nil {
		if _, err := s.clients.FindByID(ctx, nil, clientID); err != nil {
			return nil, lookupError(err, "client", "load client")
		}
	}
	defer s.observe("client_metrics", time.Now())
	scope := models.StatsScope{ClientID: &clientID, Range: rng}

	work, err := s.repo.WorkItemTotals(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	deliverables, err := s.repo.DeliverableTotals(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	posts, err := s.repo.SocialPostTotals(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	revisions, err := s.repo.CountRevisions(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	workTypes, err := s.repo.WorkTypeCounts(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	statuses, err := s.repo.DeliverableStatusCounts(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}
	owners, err := s.repo.TopOwners(ctx, scope, clientTopOwnersLimit)
	if err != nil {
		return nil, internalError(err, "failed to load client metrics")
	}

	return &models.ClientMetrics{
		ClientID:                 clientID,
		TotalHours:               models.MinutesToHours(work.Minutes),
		WorkItemCount:            work.Count,
		DeliverableCount:         deliverables.Count,
		ApprovedDeliverables:     deliverables.Finished,
		InProgressDeliverables:   deliverables.Preparing,
		SocialDeliverables:       deliverables.Social,
		RevisionCount:            revisions,
		SocialPostCount:          posts.Count,
		AwaitingApproval:         work.AwaitingApproval,
		WorkDays:                 work.WorkDays,
		TeamSize:                 work.TeamSize,
		WorkTypeDistribution:     models.ToDistribution(workTypes),
		DeliverableStatusSummary: models.ToDistribution(statuses),
		TopOwners:                nonNilOwners(owners),
	}, nil
}

// ClientSummaries returns work count and hours per client within rng, busiest first.
func (s *StatisticsService) ClientSummaries(ctx context.Context, rng models.DateRange) ([]models.ClientSummary, error) {
	defer s.observe("client_summaries", time.Now())
	rows, err := s.repo.ClientSummaries(ctx, rng)
	if err != nil {
		return nil, internalError(err, "failed to load client summaries")
	}
	if rows == nil {
		rows = []models.ClientSummary{}
	}
	return rows, nil
}

// MonthlySummary totals one calendar month. Zero year or month means the current one.
func (s *StatisticsService) MonthlySummary(ctx context.Context, year, month int) (*models.MonthlySummary, error) {
	now := s.now()
	if year <= 0 {
		year = now.Year()
	}
	if month <= 0 {
		month = int(now.Month())
	}
	if month > 12 {
		return nil, appErrors.Validation("month", "must be between 1 and 12")
	}
	defer s.observe("monthly_summary", time.Now())
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	scope := models.StatsScope{Range: models.DateRange{From: &from, To: &to}}

	work, err := s.repo.WorkItemTotals(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load monthly summary")
	}
	deliverables, err := s.repo.DeliverableTotals(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to load monthly summary")
	}
	return &models.MonthlySummary{
		Year:                 year,
		Month:                month,
		WorkCount:            work.Count,
		TotalHours:           models.MinutesToHours(work.Minutes),
		ApprovedDeliverables: deliverables.Approved,
	}, nil
}

func (s *StatisticsService) observe(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("statistics_"+label, time.Since(start))
	}
}

func nonNilOwners(owners []models.OwnerCount) []models.OwnerCount {
	if owners == nil {
		return []models.OwnerCount{}
	}
	return owners
}
