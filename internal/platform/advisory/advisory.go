// Package advisory wraps the generative-AI collaborator: a clinical trend
// summary over a patient's reading history, and medication suggestions for a
// diagnosis. Both calls are best-effort: a failure degrades the advisory
// panel, never the monitoring core.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vitallink/vitallink/internal/domain/patient"
	"github.com/vitallink/vitallink/internal/domain/vitals"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithModel overrides the model name.
func WithModel(m string) Option {
	return func(c *Client) { c.model = m }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateContent wire types, request and response trimmed to what we use.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisory service returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advisory response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("advisory response contained no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// AnalyzeVitals produces a short markdown assessment of the patient's vital
// trend, oldest reading first.
func (c *Client) AnalyzeVitals(ctx context.Context, p *patient.Patient, history []*vitals.VitalReading) (string, error) {
	var b strings.Builder
	for _, v := range history {
		fmt.Fprintf(&b, "Time: %s, BP: %g/%g, HR: %g, Temp: %.1f°C, SpO2: %g%%, RR: %g\n",
			v.TakenAt.Format(time.RFC3339), v.Systolic, v.Diastolic, v.HeartRate, v.Temperature, v.SpO2, v.RespiratoryRate)
	}

	prompt := fmt.Sprintf(`You are a senior clinician. Analyze the vital sign history for %s (age %d, diagnosis: %s).

Vital history (oldest to newest):
%s
Give a concise clinical assessment (max 150 words):
1. Identify concerning trends (e.g. signs of sepsis, shock, respiratory distress).
2. Comment on the patient's stability.
3. Suggest urgent nursing interventions if warranted.

Output format: markdown, bullet points, direct and professional.`,
		p.Name, p.Age, p.Diagnosis, b.String())

	return c.generate(ctx, prompt)
}

// SuggestMedications asks for commonly used standard medications for a
// diagnosis and parses the model's JSON array reply, tolerating markdown
// fences and falling back to a comma split when the JSON is malformed.
func (c *Client) SuggestMedications(ctx context.Context, diagnosis string) ([]string, error) {
	prompt := fmt.Sprintf(`List the standard medications commonly used for an adult patient diagnosed with %q.

Rules:
1. List only medication names with standard dosage forms (e.g. Paracetamol 500mg).
2. Return the list as a raw JSON array: ["Medication 1", "Medication 2", ...].
3. Do not add any other text, explanation, or markdown formatting.
4. Suggest at most 5-6 essential medications.`, diagnosis)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestions(text), nil
}

func parseSuggestions(text string) []string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var list []string
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return list
	}

	parts := strings.Split(cleaned, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
