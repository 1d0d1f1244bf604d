package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Mailer sends one HTML email. The production implementation talks to a
// Resend-compatible API; tests point it at a local httptest server.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type ResendMailer struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func NewResendMailer(baseURL, apiKey, from string) *ResendMailer {
	return &ResendMailer{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(map[string]any{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail api: %s: %s", resp.Status, body)
	}
	return nil
}

// SendEach delivers one message per recipient and returns how many went
// through. A failed recipient is logged and skipped, not fatal: a reminder
// that reaches most of the team is still worth sending.
func SendEach(ctx context.Context, m Mailer, recipients []string, subject, html string, log *zap.Logger) int {
	sent := 0
	for _, to := range recipients {
		if err := m.Send(ctx, to, subject, html); err != nil {
			log.Warn("mail send failed", zap.String("to", to), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

/* ===================== TEMPLATES ===================== */

// ConvocationReminderHTML is the nudge mailed to players who have not yet
// answered an open convocation.
func ConvocationReminderHTML(m Match) string {
	rival := m.AwayTeam
	if rival == "" || rival == "Inter de Verdún" {
		rival = m.HomeTeam
	}
	return fmt.Sprintf(`
		<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
			<h2 style="color:#1a2b4c">¡Tenemos partido!</h2>
			<p>Aún no has confirmado tu asistencia para el próximo partido:</p>
			<table style="border-collapse:collapse">
				<tr><td style="padding:4px 12px 4px 0"><b>Rival</b></td><td>%s</td></tr>
				<tr><td style="padding:4px 12px 4px 0"><b>Fecha</b></td><td>%s</td></tr>
				<tr><td style="padding:4px 12px 4px 0"><b>Hora</b></td><td>%s</td></tr>
				<tr><td style="padding:4px 12px 4px 0"><b>Campo</b></td><td>%s (%s)</td></tr>
			</table>
			<p>Entra en la app y marca si vienes. ¡El equipo te necesita!</p>
		</div>`,
		rival,
		m.MatchDate.Format("02/01/2006"),
		m.MatchDate.Format("15:04"),
		m.LocationName, m.City,
	)
}

// PaymentRequestHTML asks a player to settle the monthly fee.
func PaymentRequestHTML(monthKey string, amount int, instructions string) string {
	extra := ""
	if instructions != "" {
		extra = fmt.Sprintf(`<p style="color:#555">%s</p>`, instructions)
	}
	return fmt.Sprintf(`
		<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
			<h2 style="color:#1a2b4c">Cuota del mes %s</h2>
			<p>Tienes pendiente la cuota de este mes: <b>%d&euro;</b>.</p>
			%s
			<p>Cuando hagas el pago, avisa al míster para que lo apunte.</p>
		</div>`,
		monthKey, amount, extra,
	)
}
