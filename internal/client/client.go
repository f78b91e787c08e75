// Package client calls the ChurnRadar API and keeps the caller's token and
// latest prediction in a local state file.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"
)

const DefaultBaseURL = "http://localhost:8000"

// APIError is a non-2xx response. Its message is the response body.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	State   *State
}

func New(baseURL string, state *State) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if state == nil {
		state = &State{}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient, State: state}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account and returns the server's confirmation message.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	q := url.Values{"username": {username}, "email": {email}, "password": {password}}
	var resp struct {
		Msg string `json:"msg"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register?"+q.Encode(), nil, "", &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// Login exchanges credentials for a token and persists it.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var resp TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &resp)
	if err != nil {
		return nil, err
	}
	c.State.Token = resp.AccessToken
	return &resp, c.State.Save()
}

// UploadCSV sends a customer file for scoring. The result becomes the cached
// latest prediction. An empty modelChoice lets the server pick.
func (c *Client) UploadCSV(ctx context.Context, fileName string, r io.Reader, modelChoice string) (*models.PredictionPayload, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if modelChoice != "" {
		if err := mw.WriteField("model_choice", modelChoice); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var p models.PredictionPayload
	if err := c.do(ctx, http.MethodPost, "/csv", &body, mw.FormDataContentType(), &p); err != nil {
		return nil, err
	}
	c.State.LatestPrediction = &p
	return &p, c.State.Save()
}

// Report returns the plain-text report.
func (c *Client) Report(ctx context.Context) (string, error) {
	var resp struct {
		Report string `json:"report"`
	}
	if err := c.do(ctx, http.MethodGet, "/report", nil, "", &resp); err != nil {
		return "", err
	}
	return resp.Report, nil
}

// ReportPDF streams the PDF for the cached prediction into w. Without a
// cached prediction the server reports on the user's latest stored one.
func (c *Client) ReportPDF(ctx context.Context, w io.Writer) error {
	var payload any = struct{}{}
	if c.State.LatestPrediction != nil {
		payload = c.State.LatestPrediction
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/report/pdf", bytes.NewReader(data), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

// Chat sends one message to the assistant.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	data, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", err
	}
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", bytes.NewReader(data), "application/json", &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Predictions lists the user's stored predictions, newest first.
func (c *Client) Predictions(ctx context.Context) ([]models.PredictionSummary, error) {
	var resp struct {
		History []models.PredictionSummary `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/predictions", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// send performs the request and turns a non-2xx status into *APIError. The
// caller closes the body on success.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.State.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.State.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(text)}
	}
	return resp, nil
}
