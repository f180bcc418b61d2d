package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestRender_ReportCreated(t *testing.T) {
	body, err := Render(TemplateReportCreated, PreviewData[string(TemplateReportCreated)])
	require.NoError(t, err)

	assert.Contains(t, body, "#12")
	assert.Contains(t, body, "reporte-ambiente-204.pdf")
	assert.Contains(t, body, "2025-03-01")
}

func TestRender_EscapesValues(t *testing.T) {
	body, err := Render(TemplateReportCreated, map[string]string{"Description": "<script>x</script>"})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendReportCreatedEmail(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{}
	client := NewClientWithSender(sender, "Inventario <inventario@example.com>", &logger)

	err := client.SendReportCreatedEmail([]string{"a@example.com", "b@example.com"}, ReportCreated{
		ID:     "7",
		Status: "abierto",
		Date:   "2025-03-01",
		File:   "r.pdf",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	sent := sender.sent[0]
	assert.Equal(t, "Inventario <inventario@example.com>", sent.From)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sent.To)
	assert.Equal(t, "Nuevo reporte de inventario #7", sent.Subject)
	assert.Contains(t, sent.Html, "r.pdf")
}

func TestSendEmail_ProviderError(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClientWithSender(&fakeSender{err: errors.New("rate limited")}, "x@example.com", &logger)

	err := client.SendReportCreatedEmail([]string{"a@example.com"}, ReportCreated{ID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
