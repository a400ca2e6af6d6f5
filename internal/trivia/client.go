package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

const responseNoResults = 1

var ErrNoResults = errors.New("trivia api has no results for the request")

// RawQuestion mirrors the upstream question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

// Request describes one upstream call. A zero CategoryID means no category filter.
type Request struct {
	Amount     int
	CategoryID int
	Difficulty entities.Difficulty
}

// Client performs single requests against the trivia API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a Client. timeout bounds every call; zero means no extra bound.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, timeout: timeout}
}

// Fetch asks the API for up to req.Amount multiple-choice questions.
func (c *Client) Fetch(ctx context.Context, req Request) ([]RawQuestion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(req.Amount))
	params.Set("type", "multiple")
	if req.CategoryID > 0 {
		params.Set("category", strconv.Itoa(req.CategoryID))
	}
	if req.Difficulty != entities.DifficultyAny {
		params.Set("difficulty", string(req.Difficulty))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build trivia request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call trivia api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia api returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode trivia response: %w", err)
	}

	switch payload.ResponseCode {
	case 0:
		return payload.Results, nil
	case responseNoResults:
		return nil, ErrNoResults
	default:
		return nil, fmt.Errorf("trivia api response_code=%d", payload.ResponseCode)
	}
}
