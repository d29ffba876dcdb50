// Package remote is the client for the CMVR document service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// APIError is a non-2xx answer from the service. Message is the server's
// own explanation and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cmvr api: status %d", e.Status)
	}
	return fmt.Sprintf("cmvr api: status %d: %s", e.Status, e.Message)
}

// Record is a stored CMVR as returned by the service. Raw keeps the full
// body so callers can reload report sections from it.
type Record struct {
	ID          string          `json:"id"`
	FileName    string          `json:"fileName"`
	ProjectID   string          `json:"projectId"`
	ProjectName string          `json:"projectName"`
	CreatedByID string          `json:"createdById"`
	Raw         json.RawMessage `json:"-"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields struct {
		ID          flexString `json:"id"`
		FileName    flexString `json:"fileName"`
		ProjectID   flexString `json:"projectId"`
		ProjectName flexString `json:"projectName"`
		CreatedByID flexString `json:"createdById"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Record{
		ID:          string(fields.ID),
		FileName:    string(fields.FileName),
		ProjectID:   string(fields.ProjectID),
		ProjectName: string(fields.ProjectName),
		CreatedByID: string(fields.CreatedByID),
		Raw:         append(json.RawMessage(nil), data...),
	}
	return nil
}

// flexString accepts ids sent as numbers or strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		*f = ""
	default:
		*f = flexString(data)
	}
	return nil
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, token, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// Create stores a new CMVR. fileName is sent as a query parameter when set.
func (c *Client) Create(ctx context.Context, dto CreateCMVRDto, fileName string) (Record, error) {
	path := "/cmvr"
	if name := strings.TrimSpace(fileName); name != "" {
		path += "?" + url.Values{"fileName": {name}}.Encode()
	}
	var record Record
	err := c.doJSON(ctx, http.MethodPost, path, dto, &record)
	return record, err
}

func (c *Client) List(ctx context.Context) ([]Record, error) {
	return c.list(ctx, "/cmvr")
}

func (c *Client) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	return c.list(ctx, "/cmvr/user/"+url.PathEscape(userID))
}

func (c *Client) Get(ctx context.Context, id string) (Record, error) {
	var record Record
	err := c.doJSON(ctx, http.MethodGet, "/cmvr/"+url.PathEscape(id), nil, &record)
	return record, err
}

func (c *Client) Update(ctx context.Context, id string, dto CreateCMVRDto) (Record, error) {
	var record Record
	err := c.doJSON(ctx, http.MethodPatch, "/cmvr/"+url.PathEscape(id), dto, &record)
	return record, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cmvr/"+url.PathEscape(id), nil, nil)
}

// DocxURL is the address the platform opens to download the rendered
// document; the bytes never pass through this client.
func (c *Client) DocxURL(id string) string {
	return c.baseURL + "/cmvr/" + url.PathEscape(id) + "/docx"
}

// GeneralInfoPDF downloads the general information page as a PDF.
func (c *Client) GeneralInfoPDF(ctx context.Context, id string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cmvr/"+url.PathEscape(id)+"/pdf/general-info", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read pdf: %w", err)
	}

	filename := "cmvr-general-info-" + id + ".pdf"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

func (c *Client) list(ctx context.Context, path string) ([]Record, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	records := []Record{}
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	// some deployments wrap lists as {"data": [...]}
	var wrapped struct {
		Data []Record `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if wrapped.Data == nil {
		return []Record{}, nil
	}
	return wrapped.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	resp, err := c.do(ctx, method, path, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("component", "remote").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("cmvr api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	return resp, nil
}

// errorMessage pulls the server's explanation from an error body: the
// "message" field (a string, or the first of a list), else "error".
func errorMessage(body io.Reader) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || json.Unmarshal(data, &payload) != nil {
		return ""
	}
	if msg := firstString(payload.Message); msg != "" {
		return msg
	}
	return firstString(payload.Error)
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				return item
			}
		}
	}
	return ""
}
