// Package client talks to the reconciliation backend over HTTP.
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
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/session"
)

// DateLayout is the wire format of dates in query strings and bodies.
const DateLayout = "2006-01-02"

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the API rooted at baseURL (for example
// http://localhost:8080/api). A nil session sends no credentials.
func New(baseURL string, s *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var resp struct {
		Data []models.Account `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) FetchRows(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]models.Row, error) {
	q := url.Values{}
	q.Set("accountId", accountID.String())
	q.Set("startDate", start.Format(DateLayout))
	q.Set("endDate", end.Format(DateLayout))

	var resp struct {
		Data []models.RowPayload `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/reconciliation?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	rows, err := models.DecodeRows(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding reconciliation rows: %w", err)
	}
	return rows, nil
}

// AutoReconcile returns the number of links the backend created.
func (c *Client) AutoReconcile(ctx context.Context, accountID uuid.UUID, start, end time.Time) (int, error) {
	body := map[string]string{
		"accountId": accountID.String(),
		"startDate": start.Format(DateLayout),
		"endDate":   end.Format(DateLayout),
	}
	var resp struct {
		Matched int `json:"matched"`
	}
	if err := c.do(ctx, http.MethodPost, "/reconciliation/auto", body, &resp); err != nil {
		return 0, err
	}
	return resp.Matched, nil
}

func (c *Client) ManualReconcile(ctx context.Context, req models.ManualReconcileRequest) error {
	return c.do(ctx, http.MethodPost, "/reconciliation/manual", req, nil)
}

func (c *Client) Unreconcile(ctx context.Context, linkID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/reconciliation/"+linkID.String(), nil, nil)
}

// UploadStatement sends a bank statement CSV and returns the import id.
func (c *Client) UploadStatement(ctx context.Context, accountID uuid.UUID, filename string, r io.Reader) (uuid.UUID, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("accountId", accountID.String()); err != nil {
		return uuid.Nil, err
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return uuid.Nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return uuid.Nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/bank-statements/upload", &buf)
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp struct {
		ImportID uuid.UUID `json:"import_id"`
	}
	if err := c.send(req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ImportID, nil
}

type ImportProgress struct {
	ProcessedCount int    `json:"processed_count"`
	RejectedCount  int    `json:"rejected_count"`
	Total          int    `json:"total"`
	Status         string `json:"status"`
}

func (c *Client) ImportProgress(ctx context.Context, importID uuid.UUID) (*ImportProgress, error) {
	var p ImportProgress
	if err := c.do(ctx, http.MethodGet, "/bank-statements/imports/"+importID.String(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.session != nil {
		if c.session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.session.Token)
		}
		if c.session.Operator != "" {
			req.Header.Set("X-Operator", c.session.Operator)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var body struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code, apiErr.Message = body.Code, body.Error
		}
		logrus.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.Path,
			"status": resp.StatusCode,
		}).Debug("backend request rejected")
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
