package handler

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ChurnRadar_AnalyticsProject/internal/auth"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = "Name,Tenure,Churn\nAda,1,Yes\nGrace,20,No\nLinus,3,Yes\nKen,40,No\n"

type stubChat struct{ prompts []string }

func (s *stubChat) Reply(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return "stub answer", nil
}

type stubTranscriber struct{ got []byte }

func (s *stubTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	s.got = audio
	return "what is my churn rate", nil
}

type stubNarrator struct{}

func (stubNarrator) Narrate(context.Context, string) ([]byte, error) {
	return []byte("ID3fake-mp3"), nil
}

type testEnv struct {
	t      *testing.T
	h      *Handler
	router *gin.Engine
	chat   *stubChat
}

func newEnv(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, storage.InitDB("sqlite", ":memory:"))
	t.Cleanup(func() { storage.CloseDB() })
	auth.Init([]byte("handler-test-key"), time.Hour)

	chat := &stubChat{}
	d := Deps{
		ChatClient: chat,
		OutputDir:  t.TempDir(),
		UploadDir:  t.TempDir(),
		Now:        func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&d)
	}
	h := New(d)
	return &testEnv{t: t, h: h, router: NewRouter(h, RouterConfig{}), chat: chat}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(username, email, password string) *httptest.ResponseRecorder {
	q := url.Values{"username": {username}, "email": {email}, "password": {password}}
	return e.do(httptest.NewRequest(http.MethodPost, "/auth/register?"+q.Encode(), nil))
}

func (e *testEnv) login(username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) token() string {
	require.Equal(e.t, http.StatusOK, e.register("ada", "ada@example.com", "pw").Code)
	w := e.login("ada", "pw")
	require.Equal(e.t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func uploadRequest(t *testing.T, token, fileName, content, model string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	if model != "" {
		require.NoError(t, mw.WriteField("model_choice", model))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req, token)
}

func (e *testEnv) upload(token string) models.PredictionPayload {
	w := e.do(uploadRequest(e.t, token, "customers.csv", customersCSV, ""))
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var p models.PredictionPayload
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	w := e.register("ada", "ada@example.com", "pw")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"User registered successfully"}`, w.Body.String())

	w = e.register("ada", "other@example.com", "pw")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")

	assert.Equal(t, http.StatusBadRequest, e.register(" ", "x@example.com", "pw").Code)

	w = e.login("ada", "pw")
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	claims, err := auth.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Username)

	assert.Equal(t, http.StatusUnauthorized, e.login("ada", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, e.login("nobody", "pw").Code)
}

func TestRegisterInviteCode(t *testing.T) {
	e := newEnv(t)
	e.router = NewRouter(e.h, RouterConfig{InviteCode: "club"})

	assert.Equal(t, http.StatusForbidden, e.register("ada", "ada@example.com", "pw").Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/register?username=ada&email=a%40b.c&password=pw", nil)
	req.Header.Set("X-Invite-Code", "club")
	assert.Equal(t, http.StatusOK, e.do(req).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/report", "/api/predictions", "/api/profile"} {
		w := e.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestUploadCSV(t *testing.T) {
	e := newEnv(t)
	token := e.token()

	p := e.upload(token)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "ada", p.User)
	assert.Equal(t, "customers.csv", p.FileName)
	assert.Equal(t, "catboost_model.cbm", p.ModelUsed)
	assert.Equal(t, "Predicted_Target", p.PredictionColumn)
	assert.Equal(t, models.Distribution{"1": 2, "0": 2}, p.ClassDistribution)
	require.Len(t, p.Records, 4)
	assert.Equal(t, "User_ID", p.Records[0].Keys()[0])
	assert.Equal(t, "U0001", p.Records[0].Value("User_ID"))

	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/latest", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var latest models.PredictionPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, p.ID, latest.ID)

	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var history HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.InDelta(t, 50.0, history.History[0].ChurnRate, 1e-9)

	assert.Equal(t, 4.0, testutil.ToFloat64(e.h.Metrics.PredictedRecords))
}

func TestUploadCSVErrors(t *testing.T) {
	e := newEnv(t)
	token := e.token()

	w := e.do(uploadRequest(t, token, "", "", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")

	w = e.do(uploadRequest(t, token, "customers.csv", customersCSV, "Pet_Insurance"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "model_choice")

	w = e.do(uploadRequest(t, token, "customers.json", "{}", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(uploadRequest(t, token, "empty.csv", "Name,Churn\n", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no data rows")
}

func TestUploadTooLarge(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.MaxUploadBytes = 64 })
	token := e.token()

	w := e.do(uploadRequest(t, token, "customers.csv", strings.Repeat(customersCSV, 20), ""))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLatestPredictionNotFound(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/latest", nil), token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportPrediction(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	p := e.upload(token)

	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/"+p.ID+"/export", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "User_ID,Name,Tenure,Churn,Predicted_Target"))

	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/"+p.ID+"/export?format=xlsx", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/"+p.ID+"/export?format=pdf", nil), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/api/predictions/missing/export", nil), token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReport(t *testing.T) {
	e := newEnv(t)
	token := e.token()

	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/report", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var resp ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Report, "Generated for: ada")
	assert.NotContains(t, resp.Report, "LATEST PREDICTION")
	assert.Empty(t, resp.HTML)

	e.upload(token)
	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/report?format=html", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Report, "LATEST PREDICTION")
	assert.Contains(t, resp.HTML, "<h2")
}

func TestReportPDF(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	p := e.upload(token)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	pdfRequest := func(b []byte) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/report/pdf", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		return authed(req, token)
	}

	w := e.do(pdfRequest(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "prediction_report.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = e.do(pdfRequest(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.h.Metrics.PDFCacheHits))

	w = e.do(pdfRequest([]byte(`{"file_name":"customers.csv"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(pdfRequest(nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(pdfRequest([]byte(`{"file_name":"unknown.csv"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(pdfRequest([]byte(`{"records":[{"a":1}],"prediction_column":"label"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(pdfRequest([]byte(`{"records":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportAudio(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/report/audio", nil), token))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	e = newEnv(t, func(d *Deps) { d.Narrator = stubNarrator{} })
	token = e.token()
	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/report/audio", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
}

func chatRequest(token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return authed(req, token)
}

func TestChat(t *testing.T) {
	e := newEnv(t)
	token := e.token()

	w := e.do(chatRequest(token, `{"message":"hello"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"stub answer"}`, w.Body.String())
	assert.Equal(t, "hello", e.chat.prompts[0])

	e.upload(token)
	w = e.do(chatRequest(token, `{"message":"why?"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, e.chat.prompts[1], "Context: ")
	assert.Contains(t, e.chat.prompts[1], "customers.csv")

	assert.Equal(t, http.StatusBadRequest, e.do(chatRequest(token, `{"message":"  "}`)).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(chatRequest(token, `not json`)).Code)

	w = e.do(authed(httptest.NewRequest(http.MethodGet, "/chat/history", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var history ChatHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 2)
	assert.Equal(t, "why?", history.History[0].Message)
}

func TestChatRateLimit(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	e.router = NewRouter(e.h, RouterConfig{ChatRatePerMinute: 1})

	assert.Equal(t, http.StatusOK, e.do(chatRequest(token, `{"message":"one"}`)).Code)
	assert.Equal(t, http.StatusTooManyRequests, e.do(chatRequest(token, `{"message":"two"}`)).Code)
}

func wav(pcm []byte) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	b.Write(make([]byte, 16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}

func TestPCMFromWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	assert.Equal(t, pcm, pcmFromWAV(wav(pcm)))
	assert.Equal(t, pcm, pcmFromWAV(pcm))
}

func TestChatVoice(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	req := httptest.NewRequest(http.MethodPost, "/chat/voice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, e.do(authed(req, token)).Code)

	stt := &stubTranscriber{}
	e = newEnv(t, func(d *Deps) { d.Transcriber = stt })
	token = e.token()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", "question.wav")
	require.NoError(t, err)
	_, err = fw.Write(wav([]byte{9, 9}))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/chat/voice", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := e.do(authed(req, token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"transcript":"what is my churn rate","response":"stub answer"}`, w.Body.String())
	assert.Equal(t, []byte{9, 9}, stt.got)
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	token := e.token()
	e.upload(token)

	w := e.do(authed(httptest.NewRequest(http.MethodGet, "/api/profile", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"ada","email":"ada@example.com","uploads":1}`, w.Body.String())
}

func TestHealthzAndMetrics(t *testing.T) {
	e := newEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "churnradar_http_requests_total")
}

func TestChatSocket(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Transcriber = &stubTranscriber{} })
	token := e.token()
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+url.QueryEscape(token), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	assert.Equal(t, "stub answer", string(data))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, wav([]byte{1, 2})))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript":"what is my churn rate","response":"stub answer"}`, string(data))
}
