package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func newReportService(a *agency) *ClientReportService {
	svc := NewClientReportService(a.clientRepo, a.workRepo, a.delivRepo, a.revisionRepo, a.postRepo, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedReportData(a *agency) *models.Client {
	client := a.clientRepo.insertRawClient("MST001", "Acme")
	work := func(code, day, activity, owner string, minutes int) int64 {
		id := a.store.id()
		a.store.workItems = append(a.store.workItems, models.WorkItem{
			ID: id, Code: code, ClientID: client.ID, Date: date(day), ActivityType: activity, Owner: owner, DurationMinutes: minutes,
		})
		return id
	}
	banner := work("MST001-IS001", "2025-03-02", "Design", "Ayse", 90)
	teaser := work("MST001-IS002", "2025-03-02", "Video", "Mehmet", 120)
	work("MST001-IS003", "2025-03-05", "Design", "Ayse", 30)
	work("MST001-IS004", "2025-01-05", "Design", "Old", 600)

	a.store.deliverables = append(a.store.deliverables,
		models.Deliverable{ID: a.store.id(), Code: "TSLMST001001", ClientID: client.ID, WorkItemID: &banner, ActivityType: "Design",
			DeliveryType: models.DeliveryTypeSocial, Title: "Spring Banner", Owner: "Ayse", DeliveryDate: datePtr("2025-03-10"), Status: models.DeliverableStatusApproved},
		models.Deliverable{ID: a.store.id(), Code: "TSLMST001002", ClientID: client.ID, WorkItemID: &teaser, ActivityType: "Video editing",
			Title: "Teaser", DeliveryDate: datePtr("2025-03-04")},
		models.Deliverable{ID: a.store.id(), Code: "TSLMST001003", ClientID: client.ID, ActivityType: "Copy",
			Title: "Newsletter", DeliveryDate: datePtr("2024-12-01")},
	)
	a.store.revisions = append(a.store.revisions,
		models.Revision{ID: a.store.id(), ClientID: client.ID, WorkItemID: &banner, RevisionNumber: 1, Title: "Revision 1", Date: date("2025-03-03"),
			Subject: "Please make the logo larger and move the call to action above the fold", Status: models.RevisionStatusApproved},
		models.Revision{ID: a.store.id(), ClientID: client.ID, WorkItemID: &teaser, RevisionNumber: 1, Title: "Revision 1", Date: date("2025-03-04"),
			Subject: "Shorter intro", Status: models.RevisionStatusPending},
	)
	a.store.posts = append(a.store.posts,
		models.SocialPost{ID: a.store.id(), ClientID: client.ID, Date: date("2025-03-11"), Platform: "Instagram", ContentTitle: "The spring banner is live",
			PostType: models.PostTypeReels, Impressions: 900, Likes: 45, Status: models.SocialPostStatusPublished},
		models.SocialPost{ID: a.store.id(), ClientID: client.ID, Date: date("2025-03-12"), Platform: "TikTok", ContentTitle: "Draft", Status: "Draft"},
	)
	return client
}

func TestClientReportFigures(t *testing.T) {
	a := newAgency()
	client := seedReportData(a)

	report, err := newReportService(a).Build(context.Background(), client.ID, models.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, "2025-02-13", report.From.Format("2006-01-02"))
	assert.Equal(t, "2025-03-15", report.To.Format("2006-01-02"))
	assert.Equal(t, 30, report.DurationDays())

	assert.Len(t, report.WorkItems, 3)
	assert.Equal(t, 240, report.TotalMinutes)
	assert.Equal(t, 2, report.WorkDays)
	assert.Equal(t, 2, report.TeamSize)

	assert.Len(t, report.Deliverables, 2)
	assert.Equal(t, 1, report.DesignFiles)
	assert.Equal(t, 1, report.VideoFiles)
	assert.Equal(t, 1, report.Approved)
	assert.Equal(t, 1, report.DesignRevisions)
	assert.Equal(t, 1, report.VideoRevisions)
	assert.Len(t, report.Published, 1)

	assert.Equal(t, "Ayse", report.Owners[0].Name)
	assert.Equal(t, 2, report.Owners[0].Count)
	assert.Equal(t, 2.0, report.Owners[0].Hours())

	busiest, ok := report.BusiestActivity()
	require.True(t, ok)
	assert.Equal(t, "Design", busiest.Name)

	banner := report.Deliverables[0]
	assert.Equal(t, 1, report.RevisionsFor(banner))
	assert.Equal(t, "Instagram: published", report.Publication(banner))
	assert.Equal(t, "-", report.Publication(report.Deliverables[1]))
	assert.Equal(t, "MST001-report-20250315.pdf", report.Filename())
}

func TestClientReportExplicitWindow(t *testing.T) {
	a := newAgency()
	client := seedReportData(a)

	report, err := newReportService(a).Build(context.Background(), client.ID, models.DateRange{From: datePtr("2024-11-01"), To: datePtr("2025-01-31")})
	require.NoError(t, err)
	assert.Len(t, report.WorkItems, 1)
	assert.Len(t, report.Deliverables, 1)
	assert.Empty(t, report.Revisions)
	_, ok := report.BusiestActivity()
	assert.True(t, ok)
}

func TestClientReportGeneratePDF(t *testing.T) {
	a := newAgency()
	client := seedReportData(a)

	data, filename, err := newReportService(a).Generate(context.Background(), client.ID, models.DateRange{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "MST001-report-20250315.pdf", filename)
}

func TestClientReportEmptyClientStillRenders(t *testing.T) {
	a := newAgency()
	client := a.clientRepo.insertRawClient("MST009", "Quiet Co")

	data, _, err := newReportService(a).Generate(context.Background(), client.ID, models.DateRange{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestClientReportErrors(t *testing.T) {
	a := newAgency()
	_, _, err := newReportService(a).Generate(context.Background(), 404, models.DateRange{})
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFound.Code))

	client := a.clientRepo.insertRawClient("MST001", "Acme")
	a.store.failOn["deliverables.List"] = true
	_, err = newReportService(a).Build(context.Background(), client.ID, models.DateRange{})
	assert.True(t, appErrors.IsCode(err, appErrors.ErrInternal.Code))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 50))
	assert.Equal(t, "Çalış...", truncateRunes("Çalışma", 5))
}
