package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const restPathPrefix = "/rest/v1/"

// RESTConfig controls the PostgREST client.
type RESTConfig struct {
	// BaseURL is the Supabase project URL, e.g. https://xyz.supabase.co.
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// RESTStore queries the store's PostgREST endpoint with the service role key.
type RESTStore struct {
	base   *url.URL
	key    string
	client *http.Client
}

func NewRESTStore(cfg RESTConfig) (*RESTStore, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("store base url is required")
	}
	if cfg.ServiceRoleKey == "" {
		return nil, errors.New("service role key is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store base url: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyFromEnvironment
		client = &http.Client{Timeout: timeout, Transport: transport}
	}
	return &RESTStore{base: base, key: cfg.ServiceRoleKey, client: client}, nil
}

// restError mirrors the PostgREST error body.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (s *RESTStore) Select(ctx context.Context, q Query) ([]Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, decodeRESTError(resp)
	}

	var rows []Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode store response: %w", err)
	}
	return rows, nil
}

func (s *RESTStore) endpoint(q Query) string {
	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + restPathPrefix + q.Table

	v := url.Values{}
	if len(q.Columns) > 0 {
		v.Set("select", strings.Join(q.Columns, ","))
	} else {
		v.Set("select", "*")
	}
	for _, f := range q.Filters {
		v.Add(f.Column, "eq."+f.Value)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = v.Encode()
	return u.String()
}

func decodeRESTError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var re restError
	if err := json.Unmarshal(body, &re); err == nil && re.Message != "" {
		return fmt.Errorf("store returned %s: %s (%s)", resp.Status, re.Message, re.Code)
	}
	return fmt.Errorf("store returned %s", resp.Status)
}
