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

	"github.com/dmitrijs2005/dropvault/internal/client/models"
	"github.com/dmitrijs2005/dropvault/internal/common"
)

// HTTPClient talks to the DropVault HTTP API. Login stores the access
// token; subsequent calls send it as a bearer header.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type listResponse struct {
	Files []models.FileItem `json:"files"`
}

// apiError turns a non-2xx response into a client error, preferring the
// server's detail message when one is present.
func apiError(resp *http.Response) error {
	var d detailResponse
	_ = json.NewDecoder(resp.Body).Decode(&d)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if d.Detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, d.Detail)
		}
		return ErrUnauthorized
	case http.StatusConflict:
		if d.Detail != "" {
			return fmt.Errorf("%w: %s", ErrConflict, d.Detail)
		}
		return ErrConflict
	}
	if d.Detail != "" {
		return fmt.Errorf("server error: %s", d.Detail)
	}
	return fmt.Errorf("server error: status %d", resp.StatusCode)
}

// do wraps transport-level failures into ErrUnavailable so callers can
// tell an unreachable server from an API error.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, username string, password []byte) error {

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": string(password),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) error {

	form := url.Values{
		"username": {username},
		"password": {string(password)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}

	c.accessToken = tr.AccessToken
	return nil
}

// Upload sends the file content as a multipart form and returns the
// server's confirmation message.
func (c *HTTPClient) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(common.UploadFieldName, filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", common.BearerScheme+" "+c.accessToken)

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var body struct {
		Info string `json:"info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return body.Info, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]models.FileItem, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", common.BearerScheme+" "+c.accessToken)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return lr.Files, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
