package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/userhub/userhub/internal/handler/dto"
)

// apiClient is a minimal client for the user endpoints.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, httpClient *http.Client) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// createUser POSTs req to /users and returns the stored record. Non-200
// answers are turned into errors carrying the API code and message.
func (c *apiClient) createUser(ctx context.Context, req dto.UserRequest) (dto.UserResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("post user: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			return dto.UserResponse{}, fmt.Errorf("%s: %s", apiErr.Code, apiErr.Error)
		}
		return dto.UserResponse{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var user dto.UserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return dto.UserResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return user, nil
}
