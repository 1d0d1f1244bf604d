package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResendMailerSend(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var auth, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(200)
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL, "re_test_key", "Inter de Verdún <team@example.com>")
	err := m.Send(context.Background(), "player@example.com", "Convocatoria", "<p>hola</p>")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, "/emails", path)
	assert.Equal(t, "Inter de Verdún <team@example.com>", got.From)
	assert.Equal(t, []string{"player@example.com"}, got.To)
	assert.Equal(t, "Convocatoria", got.Subject)
	assert.Equal(t, "<p>hola</p>", got.HTML)
}

func TestResendMailerSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, 401)
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL, "bad", "team@example.com")
	err := m.Send(context.Background(), "player@example.com", "s", "h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestSendEachCountsOnlyDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			To []string `json:"to"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.To) == 1 && req.To[0] == "broken@example.com" {
			w.WriteHeader(500)
			return
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL, "k", "team@example.com")
	recipients := []string{"a@example.com", "broken@example.com", "b@example.com"}

	sent := SendEach(context.Background(), m, recipients, "s", "h", zap.NewNop())
	assert.Equal(t, 2, sent)
}

func TestConvocationReminderHTML(t *testing.T) {
	m := Match{
		HomeTeam:     "Inter de Verdún",
		AwayTeam:     "Rayo Collblanc",
		LocationName: "Camp Municipal La Bòbila",
		City:         "Barcelona",
		MatchDate:    time.Date(2026, 9, 13, 19, 30, 0, 0, time.UTC),
	}

	html := ConvocationReminderHTML(m)
	assert.Contains(t, html, "Rayo Collblanc")
	assert.Contains(t, html, "13/09/2026")
	assert.Contains(t, html, "19:30")
	assert.Contains(t, html, "Camp Municipal La Bòbila")
}

func TestConvocationReminderHTMLUsesHomeAsRivalWhenAway(t *testing.T) {
	m := Match{
		HomeTeam:  "CE Sants",
		AwayTeam:  "Inter de Verdún",
		MatchDate: time.Date(2026, 10, 4, 11, 0, 0, 0, time.UTC),
	}
	assert.Contains(t, ConvocationReminderHTML(m), "CE Sants")
}

func TestPaymentRequestHTML(t *testing.T) {
	html := PaymentRequestHTML("2026-09", 25, "Bizum al capitán")
	assert.Contains(t, html, "2026-09")
	assert.Contains(t, html, "25")
	assert.Contains(t, html, "Bizum al capitán")

	bare := PaymentRequestHTML("2026-10", 30, "")
	assert.False(t, strings.Contains(bare, "color:#555"))
}
