package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WordBankClient fetches vocabulary questions from the hosted word-bank API.
type WordBankClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewWordBankClient(baseURL, apiKey string, httpClient *http.Client) *WordBankClient {
	if baseURL == "" {
		baseURL = "https://api.wordbank.dev"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &WordBankClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type WordBankQuestion struct {
	ID           string   `json:"id"`
	Word         string   `json:"word"`
	AudioText    string   `json:"audio_text"`
	Difficulty   string   `json:"difficulty"`
	Choices      []string `json:"choices"`
	Answer       string   `json:"answer"`
	Hint         string   `json:"hint"`
	CollectionID string   `json:"collection_id"`
}

type wordBankResponse struct {
	Success bool               `json:"success"`
	Data    []WordBankQuestion `json:"data"`
	Error   string             `json:"error"`
}

func (c *WordBankClient) Fetch(ctx context.Context, amount int, difficulty, collectionID string) ([]WordBankQuestion, error) {
	values := url.Values{}
	values.Set("limit", fmt.Sprint(amount))
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	if collectionID != "" {
		values.Set("collection_id", collectionID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/questions?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wordbank non-200: %d", resp.StatusCode)
	}

	var payload wordBankResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("wordbank error: %s", payload.Error)
	}
	return payload.Data, nil
}
