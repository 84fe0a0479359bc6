package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/export"
)

// Exportable tables, as named in /exports/csv/:entity.
const (
	EntityClients      = "clients"
	EntityWorkItems    = "work-items"
	EntityDeliverables = "deliverables"
	EntitySocialPosts  = "social-posts"
	EntityRevisions    = "revisions"
	EntityCallLogs     = "call-logs"
)

// ExportEntities lists the tables in workbook order.
var ExportEntities = []string{EntityClients, EntityWorkItems, EntityDeliverables, EntitySocialPosts, EntityRevisions, EntityCallLogs}

type allClients interface {
	ListAll(ctx context.Context) ([]models.Client, error)
}

type allWorkItems interface {
	ListAll(ctx context.Context) ([]models.WorkItem, error)
}

type allDeliverables interface {
	ListAll(ctx context.Context) ([]models.Deliverable, error)
}

type allSocialPosts interface {
	ListAll(ctx context.Context) ([]models.SocialPost, error)
}

type allRevisions interface {
	ListAll(ctx context.Context) ([]models.Revision, error)
}

type allCallLogs interface {
	ListAll(ctx context.Context) ([]models.CallLog, error)
}

// ExportSources are the read-only listings the exporter dumps.
type ExportSources struct {
	Clients      allClients
	WorkItems    allWorkItems
	Deliverables allDeliverables
	SocialPosts  allSocialPosts
	Revisions    allRevisions
	CallLogs     allCallLogs
}

// ExportService renders the stored tables as a workbook or as CSV. It never writes to the store.
type ExportService struct {
	sources  ExportSources
	workbook *export.WorkbookExporter
	csv      *export.CSVExporter
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sources ExportSources, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sources:  sources,
		workbook: export.NewWorkbookExporter(),
		csv:      export.NewCSVExporter(true),
		metrics:  metrics,
		logger:   logger,
	}
}

// Workbook renders every table into one .xlsx file, one sheet per table.
func (s *ExportService) Workbook(ctx context.Context) ([]byte, error) {
	start := time.Now()
	sheets := make([]export.Sheet, 0, len(ExportEntities))
	for _, entity := range ExportEntities {
		sheet, err := s.sheet(ctx, entity)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	data, err := s.workbook.Render(sheets)
	if err != nil {
		return nil, internalError(err, "failed to render workbook")
	}
	s.metrics.ObserveExportRender(string(models.ExportKindWorkbook), time.Since(start))
	return data, nil
}

// CSV renders one table as CSV.
func (s *ExportService) CSV(ctx context.Context, entity string) ([]byte, error) {
	start := time.Now()
	sheet, err := s.sheet(ctx, entity)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(sheet)
	if err != nil {
		return nil, internalError(err, "failed to render csv")
	}
	s.metrics.ObserveExportRender("csv", time.Since(start))
	return data, nil
}

func (s *ExportService) sheet(ctx context.Context, entity string) (export.Sheet, error) {
	switch entity {
	case EntityClients:
		rows, err := s.sources.Clients.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export clients")
		}
		return clientSheet(rows), nil
	case EntityWorkItems:
		rows, err := s.sources.WorkItems.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export work items")
		}
		return workItemSheet(rows), nil
	case EntityDeliverables:
		rows, err := s.sources.Deliverables.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export deliverables")
		}
		return deliverableSheet(rows), nil
	case EntitySocialPosts:
		rows, err := s.sources.SocialPosts.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export social posts")
		}
		return socialPostSheet(rows), nil
	case EntityRevisions:
		rows, err := s.sources.Revisions.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export revisions")
		}
		return revisionSheet(rows), nil
	case EntityCallLogs:
		rows, err := s.sources.CallLogs.ListAll(ctx)
		if err != nil {
			return export.Sheet{}, internalError(err, "failed to export call logs")
		}
		return callLogSheet(rows), nil
	default:
		return export.Sheet{}, appErrors.Validation("entity", fmt.Sprintf("unknown export entity %q", entity))
	}
}

func clientSheet(rows []models.Client) export.Sheet {
	sheet := export.Sheet{
		Name:    "Clients",
		Headers: []string{"Code", ColumnClientName, ColumnSector, "Contract Start", ColumnMonthlyFee, ColumnContact, ColumnPhone, ColumnEmail, ColumnNotes},
	}
	for _, c := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			c.Code, c.Name, c.Sector, dto.FormatDate(c.ContractStart), strconv.FormatFloat(c.MonthlyFee, 'f', 2, 64),
			c.ContactPerson, c.Phone, c.Email, c.Notes,
		})
	}
	return sheet
}

func workItemSheet(rows []models.WorkItem) export.Sheet {
	sheet := export.Sheet{
		Name:    "WorkItems",
		Headers: []string{"Code", "Date", "Client ID", "Project", "Activity Type", "Description", "Owner", "Duration (min)", "Tags", "Status", "Revisions"},
	}
	for _, w := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			w.Code, w.Date.Format(dto.DateLayout), formatID(w.ClientID), w.Project, w.ActivityType, w.Description, w.Owner,
			strconv.Itoa(w.DurationMinutes), w.Tags, string(w.Status), strconv.Itoa(w.RevisionCount),
		})
	}
	return sheet
}

func deliverableSheet(rows []models.Deliverable) export.Sheet {
	sheet := export.Sheet{
		Name: "Deliverables",
		Headers: []string{"Code", "Client ID", "Work Item ID", "Auto Created", "Activity Type", "Project", "Delivery Type", "Title", "Owner",
			"Created On", "Delivery Date", "Status", "Description", "Platform", "Post Type", "Engagement", "Impressions", "Likes", "Comments", "Shares"},
	}
	for _, d := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			d.Code, formatID(d.ClientID), formatOptionalID(d.WorkItemID), strconv.FormatBool(d.AutoCreated), d.ActivityType, d.Project,
			d.DeliveryType, d.Title, d.Owner, dto.FormatDate(d.CreatedOn), dto.FormatDate(d.DeliveryDate), d.Status, d.Description,
			derefString(d.Platform), derefString(d.PostType), derefInt(d.Engagement), derefInt(d.Impressions), derefInt(d.Likes),
			derefInt(d.Comments), derefInt(d.Shares),
		})
	}
	return sheet
}

func socialPostSheet(rows []models.SocialPost) export.Sheet {
	sheet := export.Sheet{
		Name:    "SocialPosts",
		Headers: []string{"Date", "Client ID", "Work Item ID", "Platform", "Content Title", "Post Type", "Engagement", "Impressions", "Likes", "Comments", "Shares", "Status"},
	}
	for _, p := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			p.Date.Format(dto.DateLayout), formatID(p.ClientID), formatOptionalID(p.WorkItemID), p.Platform, p.ContentTitle, p.PostType,
			strconv.Itoa(p.Engagement), strconv.Itoa(p.Impressions), strconv.Itoa(p.Likes), strconv.Itoa(p.Comments), strconv.Itoa(p.Shares), p.Status,
		})
	}
	return sheet
}

func revisionSheet(rows []models.Revision) export.Sheet {
	sheet := export.Sheet{
		Name:    "Revisions",
		Headers: []string{"Date", "Client ID", "Work Item ID", "Number", "Title", "Requested By", "Subject", "Status"},
	}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			r.Date.Format(dto.DateLayout), formatID(r.ClientID), formatOptionalID(r.WorkItemID), strconv.Itoa(r.RevisionNumber),
			r.Title, r.RequestedBy, r.Subject, string(r.Status),
		})
	}
	return sheet
}

func callLogSheet(rows []models.CallLog) export.Sheet {
	sheet := export.Sheet{
		Name:    "CallLogs",
		Headers: []string{"Date", "Client ID", "Counterpart", "Subject", "Outcome", "Owner", "Notes", "Follow Up", "Status"},
	}
	for _, l := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			l.Date.Format(dto.DateLayout), formatID(l.ClientID), l.Counterpart, l.Subject, l.Outcome, l.Owner, l.Notes,
			dto.FormatDate(l.FollowUpDate), string(l.Status),
		})
	}
	return sheet
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
