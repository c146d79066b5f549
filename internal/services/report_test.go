package services

import (
	"testing"
	"time"

	"deinfluencer/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func sampleRecord() *models.AnalysisRecord {
	return &models.AnalysisRecord{
		InfluencerUsername:   "test_runner",
		Platform:             models.PlatformInstagram,
		OverallScore:         7.42,
		EngagementQuality:    8,
		ContentAuthenticity:  7.1,
		SponsoredRatio:       9,
		FollowerAuthenticity: 6.55,
		ConsistencyScore:     6,
		Insights:             pq.StringArray{"🟡 Moderate authenticity", "✅ Natural engagement variance"},
		Recommendations:      pq.StringArray{"Verify <script>alert(1)</script> claims"},
		CreatedAt:            time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestReportService_Markdown(t *testing.T) {
	md := NewReportService().Markdown(sampleRecord())

	assert.Contains(t, md, `# Authenticity report: @test\_runner`)
	assert.Contains(t, md, "Platform: **instagram**")
	assert.Contains(t, md, "Analyzed: 2024-03-10 12:00 UTC")
	assert.Contains(t, md, "| Overall | 7.42 / 10 |")
	assert.Contains(t, md, "| Follower authenticity | 6.55 / 10 |")
	assert.Contains(t, md, "## Insights")
	assert.Contains(t, md, "- ✅ Natural engagement variance")
	assert.Contains(t, md, "## Recommendations")
}

func TestReportService_Markdown_OmitsEmptyLists(t *testing.T) {
	record := sampleRecord()
	record.Insights = nil
	record.Recommendations = nil

	md := NewReportService().Markdown(record)
	assert.NotContains(t, md, "## Insights")
	assert.NotContains(t, md, "## Recommendations")
}

func TestReportService_HTML(t *testing.T) {
	page := string(NewReportService().HTML(sampleRecord()))

	assert.Contains(t, page, "<title>@test_runner - Authenticity Report</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>7.42 / 10</td>")
	assert.Contains(t, page, "<li>🟡 Moderate authenticity</li>")
	assert.NotContains(t, page, "<script>")
}
