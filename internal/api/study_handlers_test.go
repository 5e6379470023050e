package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewdrop/dewdrop/internal/api"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository/sqlite"
	"github.com/dewdrop/dewdrop/internal/services"
	"github.com/dewdrop/dewdrop/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := testutil.NewTestDB(t)

	cardRepo := sqlite.NewCardRepository(database)
	deckRepo := sqlite.NewDeckRepository(database)
	settingsRepo := sqlite.NewSettingsRepository(database)
	counterStore := sqlite.NewCounterStore(database)

	settingsService := services.NewSettingsService(settingsRepo, 10)
	srv := &api.Server{
		DeckService:     services.NewDeckService(deckRepo),
		CardService:     services.NewCardService(cardRepo, deckRepo),
		SettingsService: settingsService,
		StudyService:    services.NewStudyService(cardRepo, counterStore, settingsService),
		Sessions:        api.NewSessionManager(),
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

type sessionBody struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Queue  []models.Card `json:"queue"`
	Index  int           `json:"index"`
	Stats  struct {
		Total   int `json:"total"`
		Correct int `json:"correct"`
	} `json:"stats"`
}

func TestStudySessionFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/decks", map[string]any{"name": "Spanish"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var deck models.Deck
	decodeBody(t, resp, &deck)

	resp = postJSON(t, ts.URL+"/api/cards", map[string]any{
		"deck_id":       deck.ID,
		"front_content": "hola",
		"back_content":  "hello",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/study/sessions", map[string]any{"deck_id": deck.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess sessionBody
	decodeBody(t, resp, &sess)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "active", sess.Status)
	require.Len(t, sess.Queue, 1)

	resp = postJSON(t, fmt.Sprintf("%s/api/study/sessions/%s/rate", ts.URL, sess.ID), map[string]any{
		"score":      4,
		"time_taken": 2.5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rated sessionBody
	decodeBody(t, resp, &rated)
	assert.Equal(t, "completed", rated.Status)
	assert.Equal(t, 1, rated.Stats.Correct)

	// The rating must be durable: the card now carries review state.
	getResp, err := http.Get(fmt.Sprintf("%s/api/cards/%d", ts.URL, sess.Queue[0].ID))
	require.NoError(t, err)
	defer getResp.Body.Close()
	var card models.Card
	decodeBody(t, getResp, &card)
	assert.Equal(t, 1, card.ReviewCount)
	assert.Equal(t, 1, card.IntervalDays)
}

func TestRateCard_InvalidScore(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/study/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess sessionBody
	decodeBody(t, resp, &sess)

	resp = postJSON(t, fmt.Sprintf("%s/api/study/sessions/%s/rate", ts.URL, sess.ID), map[string]any{
		"score": 7,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSession_Unknown(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/study/sessions/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/settings", bytes.NewReader([]byte(`{"new_cards_per_day": 5}`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp, err := http.Get(ts.URL + "/api/settings")
	require.NoError(t, err)
	defer getResp.Body.Close()
	var body struct {
		NewCardsPerDay int `json:"new_cards_per_day"`
	}
	decodeBody(t, getResp, &body)
	assert.Equal(t, 5, body.NewCardsPerDay)
}
