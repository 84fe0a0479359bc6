package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("date", " 2025-03-14 ")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *parsed)

	empty, err := ParseDate("date", "")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseDate("date", "14.03.2025")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
}

func TestParseRequiredDate(t *testing.T) {
	_, err := ParseRequiredDate("date", "")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(nil))
	d := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-05", FormatDate(&d))
}

func TestOptionalID(t *testing.T) {
	zero := int64(0)
	seven := int64(7)
	assert.Nil(t, OptionalID(nil))
	assert.Nil(t, OptionalID(&zero))
	got := OptionalID(&seven)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), *got)
}

func TestWorkItemRequestDuration(t *testing.T) {
	assert.Equal(t, 150, WorkItemRequest{Hours: 2, Minutes: 30}.DurationMinutes())
}

func TestNewExportJobResponseHidesPath(t *testing.T) {
	resp := NewExportJobResponse(&models.ExportJob{ID: "job-1", Status: models.ExportStatusFailed, FilePath: "exports/x.xlsx", ErrorMessage: "boom"})
	assert.Equal(t, "job-1", resp.ID)
	assert.Equal(t, "boom", resp.Error)
}

func TestRequestLimitsMatchColumnWidths(t *testing.T) {
	validate := validator.New()
	s := func(n int) string { return strings.Repeat("ç", n) }

	cases := []struct {
		name  string
		width int
		build func(v string) interface{}
	}{
		{"client name", 100, func(v string) interface{} { return ClientRequest{Name: v} }},
		{"client sector", 50, func(v string) interface{} { return ClientRequest{Name: "Acme", Sector: v} }},
		{"client contact", 100, func(v string) interface{} { return ClientRequest{Name: "Acme", ContactPerson: v} }},
		{"client phone", 20, func(v string) interface{} { return ClientRequest{Name: "Acme", Phone: v} }},
		{"work item project", 100, func(v string) interface{} { return WorkItemRequest{ClientID: 1, Date: "2025-03-01", Project: v} }},
		{"work item activity", 50, func(v string) interface{} { return WorkItemRequest{ClientID: 1, Date: "2025-03-01", ActivityType: v} }},
		{"work item owner", 100, func(v string) interface{} { return WorkItemRequest{ClientID: 1, Date: "2025-03-01", Owner: v} }},
		{"work item tags", 200, func(v string) interface{} { return WorkItemRequest{ClientID: 1, Date: "2025-03-01", Tags: v} }},
		{"revision requester", 100, func(v string) interface{} { return RevisionRequest{RequestedBy: v} }},
		{"deliverable title", 100, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: v} }},
		{"deliverable activity", 50, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", ActivityType: v} }},
		{"deliverable project", 100, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", Project: v} }},
		{"deliverable owner", 100, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", Owner: v} }},
		{"deliverable status", 20, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", Status: v} }},
		{"deliverable platform", 50, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", Platform: v} }},
		{"deliverable post type", 50, func(v string) interface{} { return DeliverableRequest{ClientID: 1, Title: "Banner", PostType: v} }},
		{"social post platform", 50, func(v string) interface{} { return SocialPostRequest{ClientID: 1, Date: "2025-03-01", Platform: v} }},
		{"social post title", 100, func(v string) interface{} { return SocialPostRequest{ClientID: 1, Date: "2025-03-01", ContentTitle: v} }},
		{"social post type", 20, func(v string) interface{} { return SocialPostRequest{ClientID: 1, Date: "2025-03-01", PostType: v} }},
		{"social post status", 20, func(v string) interface{} { return SocialPostRequest{ClientID: 1, Date: "2025-03-01", Status: v} }},
		{"call counterpart", 100, func(v string) interface{} { return CallLogRequest{ClientID: 1, Date: "2025-03-01", Counterpart: v} }},
		{"call outcome", 50, func(v string) interface{} { return CallLogRequest{ClientID: 1, Date: "2025-03-01", Outcome: v} }},
		{"call owner", 100, func(v string) interface{} { return CallLogRequest{ClientID: 1, Date: "2025-03-01", Owner: v} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, validate.Struct(tc.build(s(tc.width))))
			assert.Error(t, validate.Struct(tc.build(s(tc.width+1))))
		})
	}
}

func TestClientEmailFitsColumn(t *testing.T) {
	validate := validator.New()
	local := strings.Repeat("a", 60)
	assert.NoError(t, validate.Struct(ClientRequest{Name: "Acme", Email: local + "@acme.test"}))
	assert.Error(t, validate.Struct(ClientRequest{Name: "Acme", Email: local + "@" + strings.Repeat("b", 40) + ".test"}))
}
