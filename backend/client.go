package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// Client talks to the hosted relational store over its REST interface.
// Every call carries the static service credential in both the apikey
// header and an Authorization bearer token. The client keeps no state
// between calls.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewClient(baseURL string, serviceKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     serviceKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Filter is a single column predicate, e.g. {"work_order_id", "eq", id}.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// SelectParams describe a filtered read with column projection and ordering.
type SelectParams struct {
	Table   string
	Columns string // defaults to "*"
	Filters []Filter
	Order   string // e.g. "created_at.desc"
	Limit   int
}

// Select runs a filtered read and returns the raw JSON array.
func (c *Client) Select(ctx context.Context, p SelectParams) ([]byte, error) {
	q := url.Values{}
	cols := p.Columns
	if cols == "" {
		cols = "*"
	}
	q.Set("select", cols)
	for _, f := range p.Filters {
		q.Set(f.Column, f.Op+"."+f.Value)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return c.do(ctx, http.MethodGet, p.Table, q, nil, nil)
}

// Insert posts new rows. When returning is true the inserted rows, with
// store-generated columns filled in, come back in the response body.
func (c *Client) Insert(ctx context.Context, table string, rows any, returning bool) ([]byte, error) {
	prefer := "return=minimal"
	if returning {
		prefer = "return=representation"
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, &utils.BackendError{Op: "insert " + table, Body: err.Error()}
	}
	return c.do(ctx, http.MethodPost, table, nil, body, map[string]string{"Prefer": prefer})
}

// Upsert posts rows with a merge-duplicates directive keyed on the
// on-conflict column set. Conflicting rows are updated in place rather
// than duplicated; conflict resolution is entirely the store's job.
func (c *Client) Upsert(ctx context.Context, table string, rows any, conflictCols []string) ([]byte, error) {
	q := url.Values{}
	q.Set("on_conflict", strings.Join(conflictCols, ","))
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, &utils.BackendError{Op: "upsert " + table, Body: err.Error()}
	}
	headers := map[string]string{"Prefer": "resolution=merge-duplicates,return=representation"}
	return c.do(ctx, http.MethodPost, table, q, body, headers)
}

func (c *Client) do(ctx context.Context, method string, table string, q url.Values, body []byte, headers map[string]string) ([]byte, error) {
	op := strings.ToLower(method) + " " + table

	u := c.baseURL + "/rest/v1/" + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, &utils.BackendError{Op: op, Body: err.Error()}
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &utils.BackendError{Op: op, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.BackendError{Op: op, Status: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isSchemaBootstrapBody(data) {
			return nil, &utils.SchemaBootstrapError{Detail: strings.TrimSpace(string(data))}
		}
		return nil, &utils.BackendError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// The store reports a missing relation or a missing unique constraint with
// stable error codes; either means the schema migration was never run.
func isSchemaBootstrapBody(body []byte) bool {
	var e struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	switch e.Code {
	case "42P01", "42P10", "PGRST204", "PGRST205":
		return true
	}
	return false
}
