package email

import "fmt"

// ReportCreated describes a newly registered report.
type ReportCreated struct {
	ID          string
	Status      string
	Date        string
	File        string
	Description string
}

// SendReportCreatedEmail tells the inventory managers a report was filed.
func (c *Client) SendReportCreatedEmail(to []string, report ReportCreated) error {
	// Keys must match templates/report_created.html.
	data := map[string]string{
		"ReportID":    report.ID,
		"Status":      report.Status,
		"Date":        report.Date,
		"File":        report.File,
		"Description": report.Description,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("Nuevo reporte de inventario #%s", report.ID),
		TemplateReportCreated,
		data,
	)
}
