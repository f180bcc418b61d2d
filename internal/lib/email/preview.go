package email

// PreviewData contains sample template data for local preview/testing.
//
//	PreviewData["report_created"]["Status"] == "abierto"
var PreviewData = map[string]map[string]string{
	string(TemplateReportCreated): {
		"ReportID":    "12",
		"Status":      "abierto",
		"Date":        "2025-03-01",
		"File":        "reporte-ambiente-204.pdf",
		"Description": "Portátil con pantalla rota en el ambiente 204",
	},
}
