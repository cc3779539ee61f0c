package aura

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"auractl/internal/config"
)

const (
	defaultBaseURL = "https://api.neo4j.io"

	// Tokens are refreshed this long before their reported expiry so an
	// almost-expired token is never used for a slow request.
	tokenRefreshMargin = 5 * time.Minute
)

// RealClient implements InstanceProvisioner against the Aura v1 API.
//
// Authentication uses the OAuth client-credentials flow; the access token is
// cached and refreshed ahead of expiry. The client performs no retries of
// its own: retry policy belongs to the caller.
type RealClient struct {
	http  *resty.Client
	creds config.Credentials

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// ClientOption customizes a RealClient.
type ClientOption func(*RealClient)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(url string) ClientOption {
	return func(c *RealClient) {
		c.http.SetBaseURL(url)
	}
}

// NewRealClient creates an Aura API client with the given credentials.
func NewRealClient(creds config.Credentials, opts ...ClientOption) *RealClient {
	client := &RealClient{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(60 * time.Second).
			SetHeader("Content-Type", "application/json"),
		creds: creds,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type instanceData struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	ConnectionURL string `json:"connection_url"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

type instanceResponse struct {
	Data instanceData `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"errors"`
}

// token returns a valid access token, fetching a new one if the cached
// token is missing or close to expiry.
func (c *RealClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRefreshMargin)) {
		return c.accessToken, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post("/oauth/token")
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body(), &tok); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.accessToken = tok.AccessToken
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *RealClient) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// CreateInstance creates a new, empty instance.
func (c *RealClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*InstanceInfo, error) {
	return c.createInstance(ctx, opts, "")
}

// CloneInstance creates a new instance from the source instance's data.
func (c *RealClient) CloneInstance(ctx context.Context, sourceInstanceID string, opts InstanceCreateOpts) (*InstanceInfo, error) {
	if sourceInstanceID == "" {
		return nil, fmt.Errorf("clone requires a source instance ID")
	}
	return c.createInstance(ctx, opts, sourceInstanceID)
}

func (c *RealClient) createInstance(ctx context.Context, opts InstanceCreateOpts, sourceInstanceID string) (*InstanceInfo, error) {
	payload := map[string]string{
		"name":           opts.Name,
		"tenant_id":      c.creds.TenantID,
		"memory":         opts.Memory,
		"region":         opts.Region,
		"cloud_provider": opts.CloudProvider,
		"type":           opts.Type,
		"version":        opts.Version,
	}
	if sourceInstanceID != "" {
		payload["source_instance_id"] = sourceInstanceID
	}

	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetBody(payload).Post("/v1/instances")
	if err != nil {
		return nil, fmt.Errorf("failed to create instance %q: %w", opts.Name, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var body instanceResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse create response for %q: %w", opts.Name, err)
	}
	return infoFromData(body.Data), nil
}

// GetInstance returns the current status of an instance.
func (c *RealClient) GetInstance(ctx context.Context, instanceID string) (*InstanceInfo, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/v1/instances/" + instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get instance %s: %w", instanceID, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var body instanceResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse instance response for %s: %w", instanceID, err)
	}
	return infoFromData(body.Data), nil
}

// DeleteInstance requests asynchronous deletion of an instance.
func (c *RealClient) DeleteInstance(ctx context.Context, instanceID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Delete("/v1/instances/" + instanceID)
	if err != nil {
		return fmt.Errorf("failed to delete instance %s: %w", instanceID, err)
	}
	if resp.IsError() {
		// Idempotent: the instance may already be gone.
		if resp.StatusCode() == http.StatusNotFound {
			return nil
		}
		return apiError(resp)
	}
	return nil
}

// PauseInstance suspends a running instance.
func (c *RealClient) PauseInstance(ctx context.Context, instanceID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Post("/v1/instances/" + instanceID + "/pause")
	if err != nil {
		return fmt.Errorf("failed to pause instance %s: %w", instanceID, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func infoFromData(data instanceData) *InstanceInfo {
	return &InstanceInfo{
		ID:            data.ID,
		Name:          data.Name,
		Status:        data.Status,
		ConnectionURL: data.ConnectionURL,
		Username:      data.Username,
		Password:      data.Password,
	}
}

func apiError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}

	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && len(body.Errors) > 0 {
		apiErr.Message = body.Errors[0].Message
		apiErr.Reason = body.Errors[0].Reason
	} else {
		apiErr.Message = resp.Status()
	}
	return apiErr
}
