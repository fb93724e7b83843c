// Package client предоставляет тонкий JSON REST клиент к коллекционному API
// диспетчерского сервиса: список, чтение, создание и частичное обновление
// ресурсов. Без кэширования и пагинации.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client — клиент коллекционного API. Токен сессии подставляется в заголовок
// Authorization после Login или SetToken.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option настраивает клиента при создании.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (таймауты, транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken задаёт токен сессии заранее, минуя Login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New создаёт клиента для baseURL вида http://host:port/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken задаёт токен сессии для последующих запросов.
func (c *Client) SetToken(token string) { c.token = token }

// APIError — ответ сервиса со статусом вне 2xx.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: could not encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("client: could not build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: could not decode response body: %w", err)
	}
	return nil
}

// Login открывает сессию и запоминает токен в клиенте.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

// Logout закрывает сессию и сбрасывает токен.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// LookupUsers ищет пользователей по точному совпадению email и пароля.
func (c *Client) LookupUsers(ctx context.Context, email, password string) ([]User, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("password", password)
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Menu возвращает пункты навигации, доступные роли текущей сессии.
func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAmbulances возвращает машины; status фильтрует по точному значению,
// пустая строка или "ALL" — без фильтра.
func (c *Client) ListAmbulances(ctx context.Context, status string) ([]Ambulance, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var list []Ambulance
	if err := c.do(ctx, http.MethodGet, "/ambulances", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAmbulance возвращает машину по идентификатору.
func (c *Client) GetAmbulance(ctx context.Context, id string) (*Ambulance, error) {
	var a Ambulance
	if err := c.do(ctx, http.MethodGet, "/ambulances/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAmbulance регистрирует машину и возвращает созданную запись.
func (c *Client) CreateAmbulance(ctx context.Context, req CreateAmbulance) (*Ambulance, error) {
	var a Ambulance
	if err := c.do(ctx, http.MethodPost, "/ambulances", nil, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// PatchAmbulance частично обновляет машину; nil-поля не изменяются.
func (c *Client) PatchAmbulance(ctx context.Context, id string, patch PatchAmbulance) (*Ambulance, error) {
	var a Ambulance
	if err := c.do(ctx, http.MethodPatch, "/ambulances/"+url.PathEscape(id), nil, patch, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// IncidentFilter — параметры выборки инцидентов. Search и Status включают
// режим истории; ExcludeStatuses транслируется в status_ne.
type IncidentFilter struct {
	Search          string
	Status          string
	ExcludeStatuses []string
}

// ListIncidents возвращает инциденты по фильтру.
func (c *Client) ListIncidents(ctx context.Context, filter IncidentFilter) ([]Incident, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	for _, s := range filter.ExcludeStatuses {
		q.Add("status_ne", s)
	}
	var list []Incident
	if err := c.do(ctx, http.MethodGet, "/incidents", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetIncident возвращает инцидент по идентификатору.
func (c *Client) GetIncident(ctx context.Context, id string) (*Incident, error) {
	var i Incident
	if err := c.do(ctx, http.MethodGet, "/incidents/"+url.PathEscape(id), nil, nil, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// PatchIncident частично обновляет одну запись инцидента. Для
// согласованного назначения машины используйте Assign.
func (c *Client) PatchIncident(ctx context.Context, id string, patch PatchIncident) error {
	return c.do(ctx, http.MethodPatch, "/incidents/"+url.PathEscape(id), nil, patch, nil)
}

// Assign назначает машину на инцидент через координатор сервиса.
func (c *Client) Assign(ctx context.Context, incidentID, ambulanceID string) error {
	return c.do(ctx, http.MethodPost, "/dispatch/assign", nil, map[string]string{
		"incidentId":  incidentID,
		"ambulanceId": ambulanceID,
	}, nil)
}

// MapState возвращает срез карты: машины и незакрытые инциденты.
func (c *Client) MapState(ctx context.Context, status string) (*MapState, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var state MapState
	if err := c.do(ctx, http.MethodGet, "/map/state", q, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Stats возвращает показатели дашборда.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RecentIncidents возвращает последние инциденты дашборда.
func (c *Client) RecentIncidents(ctx context.Context) ([]Incident, error) {
	var list []Incident
	if err := c.do(ctx, http.MethodGet, "/dashboard/recent", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Health возвращает статус сервиса.
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var status map[string]string
	if err := c.do(ctx, http.MethodGet, "/system/health", nil, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}
