package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	HeaderProjectID = "X-Project-Id"
	HeaderPublicKey = "X-Public-Key"
)

type RemoteConfig struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// APIError is a non-2xx answer from the record API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record api: status %d: %s", e.Status, e.Message)
}

// Remote talks to a record API over HTTP/JSON.
type Remote struct {
	base      *url.URL
	projectID string
	publicKey string
	http      *http.Client
	log       *zap.Logger
}

func NewRemote(cfg RemoteConfig, log *zap.Logger) (*Remote, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("record api base url is required")
	}
	if cfg.ProjectID == "" || cfg.PublicKey == "" {
		return nil, errors.New("record api project id and public key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse record api url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Remote{
		base:      base,
		projectID: cfg.ProjectID,
		publicKey: cfg.PublicKey,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       log,
	}, nil
}

type recordsBody struct {
	Records []Record `json:"records"`
}

type deleteBody struct {
	RecordIDs []string `json:"RecordIds"`
}

type getBody struct {
	Data Record `json:"data"`
}

func (c *Remote) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	var out FetchResponse
	if err := c.do(ctx, http.MethodPost, c.path(table, "query"), nil, q, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Record{}
	}
	return &out, nil
}

func (c *Remote) GetRecordByID(ctx context.Context, table, id string, fields []string) (Record, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	var out getBody
	err := c.do(ctx, http.MethodGet, c.path(table, id), params, nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Remote) CreateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	return c.mutate(ctx, http.MethodPost, table, recordsBody{Records: records})
}

func (c *Remote) UpdateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	return c.mutate(ctx, http.MethodPut, table, recordsBody{Records: records})
}

func (c *Remote) DeleteRecords(ctx context.Context, table string, ids []string) (*MutationResponse, error) {
	return c.mutate(ctx, http.MethodDelete, table, deleteBody{RecordIDs: ids})
}

func (c *Remote) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Remote) mutate(ctx context.Context, method, table string, body any) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	var out MutationResponse
	if err := c.do(ctx, method, c.path(table), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Remote) path(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/" + strings.Join(escaped, "/")
}

func (c *Remote) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	// path уже экранирован, RawPath не даёт String() экранировать повторно
	u := *c.base
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	u.Path = unescaped
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderProjectID, c.projectID)
	req.Header.Set(HeaderPublicKey, c.publicKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("[store][remote] request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
