package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/export"
)

const (
	reportDefaultWindowDays = 30
	reportDateLayout        = "02.01.2006"
	reportSubjectMaxRunes   = 50
	reportCategoryPreview   = 5
	reportTopOwners         = 5
	// PDFContentType is sent with rendered client reports.
	PDFContentType = "application/pdf"
)

type reportWorkItemReader interface {
	ListByClient(ctx context.Context, clientID int64, rng models.DateRange) ([]models.WorkItem, error)
}

type reportDeliverableReader interface {
	List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error)
}

type reportRevisionReader interface {
	List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, error)
}

type reportSocialPostReader interface {
	List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error)
}

// ReportTally is one named count with hours, used for owners and work types.
type ReportTally struct {
	Name    string
	Count   int
	Minutes int
}

// Hours converts the tally minutes to hours.
func (t ReportTally) Hours() float64 {
	return models.MinutesToHours(t.Minutes)
}

// ClientReport is the figures behind one client activity document.
type ClientReport struct {
	Client       models.Client
	From         time.Time
	To           time.Time
	GeneratedAt  time.Time
	WorkItems    []models.WorkItem
	Deliverables []models.Deliverable
	Revisions    []models.Revision
	Published    []models.SocialPost

	TotalMinutes     int
	WorkDays         int
	TeamSize         int
	DesignFiles      int
	VideoFiles       int
	DesignRevisions  int
	VideoRevisions   int
	Approved         int
	Owners           []ReportTally
	WorkTypes        []ReportTally
	StatusCounts     []ReportTally
	revisionsByItem  map[int64]int
	deliverableByRef map[int64]string
}

// DurationDays is the length of the reported window.
func (r *ClientReport) DurationDays() int {
	return int(r.To.Sub(r.From).Hours() / 24)
}

// Filename is the suggested download name for the rendered document.
func (r *ClientReport) Filename() string {
	code := r.Client.Code
	if code == "" {
		code = strconv.FormatInt(r.Client.ID, 10)
	}
	return fmt.Sprintf("%s-report-%s.pdf", code, r.GeneratedAt.Format("20060102"))
}

// ClientReportService renders per-client activity documents.
type ClientReportService struct {
	clients      clientReader
	workItems    reportWorkItemReader
	deliverables reportDeliverableReader
	revisions    reportRevisionReader
	posts        reportSocialPostReader
	logger       *zap.Logger
	now          func() time.Time
}

// NewClientReportService constructs a ClientReportService.
func NewClientReportService(
	clients clientReader,
	workItems reportWorkItemReader,
	deliverables reportDeliverableReader,
	revisions reportRevisionReader,
	posts reportSocialPostReader,
	logger *zap.Logger,
) *ClientReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientReportService{
		clients:      clients,
		workItems:    workItems,
		deliverables: deliverables,
		revisions:    revisions,
		posts:        posts,
		logger:       logger,
		now:          time.Now,
	}
}

// Generate builds the report for clientID over rng and renders it as PDF.
func (s *ClientReportService) Generate(ctx context.Context, clientID int64, rng models.DateRange) ([]byte, string, error) {
	report, err := s.Build(ctx, clientID, rng)
	if err != nil {
		return nil, "", err
	}
	data, err := renderClientReport(report)
	if err != nil {
		return nil, "", internalError(err, "failed to render client report")
	}
	s.logger.Sugar().Infow("client report generated", "client_id", clientID, "bytes", len(data))
	return data, report.Filename(), nil
}

// Build gathers the figures for clientID. A missing end means today and a missing start means 30 days before the end.
func (s *ClientReportService) Build(ctx context.Context, clientID int64, rng models.DateRange) (*ClientReport, error) {
	client, err := s.clients.FindByID(ctx, nil, clientID)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}

	to := today(s.now)
	if rng.To != nil {
		to = *rng.To
	}
	from := to.AddDate(0, 0, -reportDefaultWindowDays)
	if rng.From != nil {
		from = *rng.From
	}
	window := models.DateRange{From: &from, To: &to}
	id := client.ID

	items, err := s.workItems.ListByClient(ctx, id, window)
	if err != nil {
		return nil, internalError(err, "failed to load work items")
	}
	deliverables, err := s.deliverables.List(ctx, models.DeliverableFilter{ClientID: &id, Range: window})
	if err != nil {
		return nil, internalError(err, "failed to load deliverables")
	}
	revisions, err := s.revisions.List(ctx, models.RevisionFilter{ClientID: &id, Range: window})
	if err != nil {
		return nil, internalError(err, "failed to load revisions")
	}
	posts, err := s.posts.List(ctx, models.SocialPostFilter{ClientID: &id, Range: window})
	if err != nil {
		return nil, internalError(err, "failed to load social posts")
	}

	report := &ClientReport{
		Client:           *client,
		From:             from,
		To:               to,
		GeneratedAt:      s.now(),
		WorkItems:        items,
		Deliverables:     deliverables,
		Revisions:        revisions,
		revisionsByItem:  map[int64]int{},
		deliverableByRef: map[int64]string{},
	}
	report.tallyWork()
	report.tallyDeliverables()
	report.tallyRevisions()
	for _, post := range posts {
		if post.Status == models.SocialPostStatusPublished {
			report.Published = append(report.Published, post)
		}
	}
	return report, nil
}

func (r *ClientReport) tallyWork() {
	days := map[string]struct{}{}
	owners := map[string]*ReportTally{}
	types := map[string]*ReportTally{}
	for _, item := range r.WorkItems {
		r.TotalMinutes += item.DurationMinutes
		days[item.Date.Format("2006-01-02")] = struct{}{}
		if item.Owner != "" {
			addTally(owners, item.Owner, item.DurationMinutes)
		}
		if item.ActivityType != "" {
			addTally(types, item.ActivityType, item.DurationMinutes)
		}
	}
	r.WorkDays = len(days)
	r.TeamSize = len(owners)
	r.Owners = sortedTallies(owners)
	r.WorkTypes = sortedTallies(types)
}

func (r *ClientReport) tallyDeliverables() {
	statuses := map[string]*ReportTally{}
	for _, d := range r.Deliverables {
		switch mediaKind(d.DeliveryType, d.ActivityType) {
		case "design":
			r.DesignFiles++
		case "video":
			r.VideoFiles++
		}
		if d.Status == models.DeliverableStatusApproved {
			r.Approved++
		}
		addTally(statuses, deliverableStatus(d), 0)
		if d.WorkItemID != nil {
			r.deliverableByRef[*d.WorkItemID] = mediaKind(d.DeliveryType, d.ActivityType)
		}
	}
	r.StatusCounts = sortedTallies(statuses)
}

func (r *ClientReport) tallyRevisions() {
	itemTypes := make(map[int64]string, len(r.WorkItems))
	for _, item := range r.WorkItems {
		itemTypes[item.ID] = mediaKind(item.ActivityType)
	}
	for _, rev := range r.Revisions {
		if rev.WorkItemID == nil {
			continue
		}
		r.revisionsByItem[*rev.WorkItemID]++
		kind := r.deliverableByRef[*rev.WorkItemID]
		if kind == "" {
			kind = itemTypes[*rev.WorkItemID]
		}
		switch kind {
		case "design":
			r.DesignRevisions++
		case "video":
			r.VideoRevisions++
		}
	}
}

// RevisionsFor counts the revisions raised on the deliverable's work item.
func (r *ClientReport) RevisionsFor(d models.Deliverable) int {
	if d.WorkItemID == nil {
		return 0
	}
	return r.revisionsByItem[*d.WorkItemID]
}

// Publication describes where a deliverable went live, matched on post titles.
func (r *ClientReport) Publication(d models.Deliverable) string {
	if d.Title == "" {
		return "-"
	}
	title := strings.ToLower(d.Title)
	for _, post := range r.Published {
		if strings.Contains(strings.ToLower(post.ContentTitle), title) {
			return post.Platform + ": published"
		}
	}
	return "-"
}

// mediaKind classifies a record as design, video or neither by substring of its types.
func mediaKind(types ...string) string {
	kind := strings.ToLower(strings.Join(types, " "))
	switch {
	case strings.Contains(kind, "design"):
		return "design"
	case strings.Contains(kind, "video"):
		return "video"
	}
	return ""
}

func deliverableStatus(d models.Deliverable) string {
	if d.Status == "" {
		return models.DeliverableStatusPending
	}
	return d.Status
}

func deliverableCategory(d models.Deliverable) string {
	switch {
	case d.DeliveryType != "":
		return d.DeliveryType
	case d.ActivityType != "":
		return d.ActivityType
	}
	return "Other"
}

func addTally(m map[string]*ReportTally, name string, minutes int) {
	t, ok := m[name]
	if !ok {
		t = &ReportTally{Name: name}
		m[name] = t
	}
	t.Count++
	t.Minutes += minutes
}

// sortedTallies orders by count descending, then name.
func sortedTallies(m map[string]*ReportTally) []ReportTally {
	out := make([]ReportTally, 0, len(m))
	for _, t := range m {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func formatReportDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(reportDateLayout)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func formatHours(minutes int) string {
	return strconv.FormatFloat(models.MinutesToHours(minutes), 'f', 1, 64)
}

func renderClientReport(r *ClientReport) ([]byte, error) {
	doc := export.NewDocument(r.Client.Name + " report")

	doc.Title(r.Client.Name + " - Agency Report")
	doc.Subtitle(fmt.Sprintf("Report date: %s\nPeriod: %s - %s",
		r.GeneratedAt.Format(reportDateLayout), r.From.Format(reportDateLayout), r.To.Format(reportDateLayout)))

	doc.Heading("Summary")
	doc.Paragraph(fmt.Sprintf("%s hours of service were delivered over %d work days by a team of %d.",
		formatHours(r.TotalMinutes), r.WorkDays, r.TeamSize), true)

	doc.Heading("Indicators")
	doc.Table([]string{"Indicator", "Value"}, [][]string{
		{"Media files", fmt.Sprintf("%d (%d design + %d video)", len(r.Deliverables), r.DesignFiles, r.VideoFiles)},
		{"Revisions", fmt.Sprintf("%d (%d design + %d video)", len(r.Revisions), r.DesignRevisions, r.VideoRevisions)},
		{"Approved", strconv.Itoa(r.Approved)},
		{"Published", strconv.Itoa(len(r.Published))},
		{"Rejected", "0"},
		{"Project duration", fmt.Sprintf("%d days", r.DurationDays())},
	})
	doc.PageBreak()

	if len(r.Owners) > 0 {
		doc.Heading("Team")
		owners := r.Owners
		if len(owners) > reportTopOwners {
			owners = owners[:reportTopOwners]
		}
		rows := make([][]string, 0, len(owners))
		for _, o := range owners {
			rows = append(rows, []string{o.Name, strconv.Itoa(o.Count), formatHours(o.Minutes)})
		}
		doc.Table([]string{"Owner", "Work items", "Hours"}, rows)
	}

	if len(r.Deliverables) > 0 {
		doc.Heading("Deliverables")
		rows := make([][]string, 0, len(r.Deliverables))
		for _, d := range r.Deliverables {
			title := d.Title
			if title == "" {
				title = "Untitled"
			}
			rows = append(rows, []string{
				title,
				formatReportDate(d.DeliveryDate),
				d.Owner,
				strconv.Itoa(r.RevisionsFor(d)),
				deliverableStatus(d),
				r.Publication(d),
			})
		}
		doc.Table([]string{"Title", "Delivery", "Owner", "Revisions", "Status", "Publication"}, rows)
	}

	if len(r.Revisions) > 0 {
		doc.Heading("Revisions")
		rows := make([][]string, 0, len(r.Revisions))
		for _, rev := range r.Revisions {
			date := rev.Date
			rows = append(rows, []string{
				formatReportDate(&date),
				rev.Title,
				truncateRunes(rev.Subject, reportSubjectMaxRunes),
				string(rev.Status),
			})
		}
		doc.Table([]string{"Date", "Revision", "Subject", "Status"}, rows)
	}

	if len(r.StatusCounts) > 0 {
		doc.Heading("Status Summary")
		for _, st := range r.StatusCounts {
			doc.Bullet(fmt.Sprintf("%s: %d", st.Name, st.Count))
		}
	}

	if len(r.WorkTypes) > 0 {
		doc.Heading("Work Types")
		rows := make([][]string, 0, len(r.WorkTypes))
		for _, wt := range r.WorkTypes {
			rows = append(rows, []string{wt.Name, strconv.Itoa(wt.Count), formatHours(wt.Minutes)})
		}
		doc.Table([]string{"Activity", "Count", "Hours"}, rows)
	}

	if len(r.Deliverables) > 0 {
		doc.Heading("Delivery Calendar")
		calendar := append([]models.Deliverable(nil), r.Deliverables...)
		sort.SliceStable(calendar, func(i, j int) bool {
			a, b := calendar[i].DeliveryDate, calendar[j].DeliveryDate
			if a == nil || b == nil {
				return a == nil && b != nil
			}
			return a.Before(*b)
		})
		for _, d := range calendar {
			doc.Bullet(fmt.Sprintf("%s - %s", formatReportDate(d.DeliveryDate), d.Title))
		}

		doc.Heading("Categories")
		categories := map[string][]string{}
		for _, d := range r.Deliverables {
			key := deliverableCategory(d)
			categories[key] = append(categories[key], d.Title)
		}
		keys := make([]string, 0, len(categories))
		for k := range categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			titles := categories[k]
			doc.SubHeading(fmt.Sprintf("%s (%d)", k, len(titles)))
			for i, title := range titles {
				if i == reportCategoryPreview {
					doc.Bullet(fmt.Sprintf("... and %d more", len(titles)-reportCategoryPreview))
					break
				}
				doc.Bullet(title)
			}
		}
	}

	if len(r.Published) > 0 {
		doc.Heading("Published Posts")
		rows := make([][]string, 0, len(r.Published))
		for _, p := range r.Published {
			date := p.Date
			rows = append(rows, []string{
				formatReportDate(&date),
				fmt.Sprintf("%s (%s)", p.ContentTitle, p.PostType),
				p.Platform,
				strconv.Itoa(p.Impressions),
				strconv.Itoa(p.Likes),
			})
		}
		doc.Table([]string{"Date", "Content", "Platform", "Impressions", "Likes"}, rows)
	}

	doc.PageBreak()
	doc.Heading("Conclusion")
	doc.Paragraph(fmt.Sprintf("Over %d days the agency delivered the following for %s:", r.DurationDays(), r.Client.Name), false)
	doc.Bullet(fmt.Sprintf("%d media files (%d design + %d video)", len(r.Deliverables), r.DesignFiles, r.VideoFiles))
	doc.Bullet(fmt.Sprintf("%d revisions handled", len(r.Revisions)))
	doc.Bullet(fmt.Sprintf("%d deliverables approved", r.Approved))
	doc.Bullet(fmt.Sprintf("%d posts published", len(r.Published)))
	doc.Bullet(fmt.Sprintf("%s hours of service", formatHours(r.TotalMinutes)))
	doc.Bullet(fmt.Sprintf("%d work days", r.WorkDays))
	if r.TeamSize > 0 {
		doc.Bullet(fmt.Sprintf("a team of %d", r.TeamSize))
	}
	if busiest, ok := r.BusiestActivity(); ok {
		doc.Paragraph(fmt.Sprintf("Busiest activity: %s (%d items)", busiest.Name, busiest.Count), true)
	}

	return doc.Bytes()
}

// BusiestActivity returns the most frequent work type, if any work was logged.
func (r *ClientReport) BusiestActivity() (ReportTally, bool) {
	if len(r.WorkTypes) == 0 {
		return ReportTally{}, false
	}
	return r.WorkTypes[0], true
}
