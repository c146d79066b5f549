package services

import (
	"fmt"
	"html"
	"strings"

	"deinfluencer/internal/models"

	"github.com/russross/blackfriday/v2"
)

// ReportService renders saved analyses as shareable documents
type ReportService struct{}

// NewReportService creates a new ReportService
func NewReportService() *ReportService {
	return &ReportService{}
}

var scoreRows = []struct {
	label string
	value func(models.AuthenticityScore) float64
}{
	{"Overall", func(s models.AuthenticityScore) float64 { return s.OverallScore }},
	{"Engagement quality", func(s models.AuthenticityScore) float64 { return s.EngagementQuality }},
	{"Content authenticity", func(s models.AuthenticityScore) float64 { return s.ContentAuthenticity }},
	{"Sponsored ratio", func(s models.AuthenticityScore) float64 { return s.SponsoredRatio }},
	{"Follower authenticity", func(s models.AuthenticityScore) float64 { return s.FollowerAuthenticity }},
	{"Consistency", func(s models.AuthenticityScore) float64 { return s.ConsistencyScore }},
}

// Markdown renders the record as a Markdown report
func (s *ReportService) Markdown(record *models.AnalysisRecord) string {
	var b strings.Builder
	score := record.Score()

	fmt.Fprintf(&b, "# Authenticity report: @%s\n\n", escapeMarkdown(record.InfluencerUsername))
	fmt.Fprintf(&b, "Platform: **%s**  \nAnalyzed: %s\n\n", escapeMarkdown(string(record.Platform)), record.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	b.WriteString("## Scores\n\n")
	b.WriteString("| Dimension | Score |\n|---|---|\n")
	for _, row := range scoreRows {
		fmt.Fprintf(&b, "| %s | %.2f / 10 |\n", row.label, row.value(score))
	}

	writeList(&b, "Insights", record.Insights)
	writeList(&b, "Recommendations", record.Recommendations)
	return b.String()
}

// HTML renders the record as a standalone HTML page
func (s *ReportService) HTML(record *models.AnalysisRecord) []byte {
	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	body := blackfriday.Run([]byte(s.Markdown(record)), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))

	title := "@" + html.EscapeString(record.InfluencerUsername) + " - Authenticity Report"
	return []byte(wrapWithTheme(string(body), title))
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", escapeMarkdown(item))
	}
}

// escapeMarkdown neutralizes user-supplied text so it renders literally
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
		"[", `\[`, "]", `\]`, "|", `\|`, "#", `\#`,
	).Replace(s)
}

func wrapWithTheme(content, title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + `</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f8f9fa;
            padding: 20px;
        }

        .container {
            max-width: 860px;
            margin: 0 auto;
            background: white;
            padding: 2.5rem;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            border: 1px solid #e5e7eb;
        }

        h1 {
            font-size: 1.8rem;
            border-bottom: 2px solid #e5e7eb;
            padding-bottom: 0.5rem;
        }

        h2 {
            font-size: 1.3rem;
            color: #7c3aed;
            margin-top: 2rem;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 1.5rem;
        }

        th, td {
            border: 1px solid #d1d5db;
            padding: 0.6rem;
            text-align: left;
        }

        th {
            background: #f9fafb;
        }

        li {
            margin-bottom: 0.4rem;
        }
    </style>
</head>
<body>
    <div class="container">
` + content + `
    </div>
</body>
</html>`
}
