package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateReportCreated corresponds to templates/report_created.html
	TemplateReportCreated Template = "report_created"
)
