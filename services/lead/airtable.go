package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"solarbot/models"
)

const defaultAirtableURL = "https://api.airtable.com/v0"

// AirtableClient creates lead records in an Airtable table.
type AirtableClient struct {
	APIKey     string
	BaseID     string
	Table      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewAirtableClient(apiKey, baseID, table string) *AirtableClient {
	if table == "" {
		table = "Leads"
	}
	return &AirtableClient{
		APIKey:     apiKey,
		BaseID:     baseID,
		Table:      table,
		BaseURL:    defaultAirtableURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether credentials are present.
func (a *AirtableClient) Configured() bool {
	return a != nil && a.APIKey != "" && a.BaseID != ""
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// CreateLead stores l and returns the Airtable record id.
func (a *AirtableClient) CreateLead(ctx context.Context, l models.Lead) (string, error) {
	fields := map[string]any{
		"Name":        l.Name,
		"Email":       l.Email,
		"Phone":       l.Phone,
		"Address":     l.Address,
		"Appointment": l.Appointment.Start.Format(time.RFC3339),
		"Event":       l.EventLink,
		"Source":      l.Source,
	}
	body, err := json.Marshal(airtableRecord{Fields: fields})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/%s", a.BaseURL, url.PathEscape(a.BaseID), url.PathEscape(a.Table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("airtable request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("airtable: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	var rec airtableRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return "", fmt.Errorf("airtable: decode response: %w", err)
	}
	return rec.ID, nil
}
