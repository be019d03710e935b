package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/pkg/notion"
)

// NotionExporter creates one page per record in a Notion lead database.
type NotionExporter struct {
	client notion.Client
	dbID   string
}

func NewNotionExporter(client notion.Client, dbID string) *NotionExporter {
	return &NotionExporter{client: client, dbID: dbID}
}

// Export creates pages for all records and returns the number created. It
// stops at the first failure so a broken token does not burn the rate budget.
func (e *NotionExporter) Export(ctx context.Context, records []model.CompanyRecord) (int, error) {
	created := 0
	for _, r := range records {
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: recordProperties(r),
		}
		if _, err := e.client.CreatePage(ctx, req); err != nil {
			return created, eris.Wrap(err, "export: create notion page")
		}
		created++
	}
	return created, nil
}

// recordProperties maps a record onto the lead database schema: Name as the
// title, URL as a url property, everything else rich_text. Empty fields are
// omitted so not_found records stay sparse.
func recordProperties(r model.CompanyRecord) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: r.CompanyName}},
			},
		},
		"Status": notionapi.StatusProperty{
			Status: notionapi.Status{Name: notionStatus(r.Status)},
		},
	}

	if r.Domain != "" {
		props["URL"] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  "https://" + r.Domain,
		}
	}

	richText := map[string]string{
		"Location":  r.Geography,
		"Revenue":   r.Revenue,
		"Employees": r.Employees,
		"LinkedIn":  r.LinkedInURL,
		"Source":    r.Source,
	}
	for name, value := range richText {
		if value == "" {
			continue
		}
		props[name] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: value}},
			},
		}
	}

	return props
}

func notionStatus(s model.RecordStatus) string {
	if s == model.StatusVerified {
		return "Verified"
	}
	return "Not Found"
}
