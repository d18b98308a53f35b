package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiURL = "https://api.ocr.space/parse/image"

// PDF processing can take a while upstream.
const requestTimeout = 120 * time.Second

// ErrUpstream marks transport-level failures (timeout, network, HTTP
// status). Processing failures reported by the OCR engine itself are not
// errors; they come back in Result.
var ErrUpstream = errors.New("ocr upstream failure")

type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	ExitCode   int    `json:"exit_code"`
}

// Result is the orchestrator-facing outcome of one extraction call.
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Pages   []Page `json:"pages"`
	Error   string `json:"error,omitempty"`
}

type apiResponse struct {
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ParsedResults         []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
}

// Client talks to the OCR.space parse endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL overrides the endpoint; used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// WithHTTPClient swaps the underlying HTTP client; used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// Extract runs OCR over raw file bytes. Engine 2 handles complex layouts
// best, so it is the default for loan documents.
func (c *Client) Extract(ctx context.Context, content []byte, filename, language string) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: OCRSPACE_API_KEY not set", ErrUpstream)
	}
	if language == "" {
		language = "eng"
	}

	fileType, prefix := fileTypeFor(filename)
	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("base64Image", prefix+base64.StdEncoding.EncodeToString(content))
	form.Set("language", language)
	form.Set("isOverlayRequired", "false")
	form.Set("OCREngine", "2")
	form.Set("filetype", fileType)
	form.Set("isTable", "true")
	form.Set("scale", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}

	if parsed.IsErroredOnProcessing {
		return &Result{Success: false, Error: errorMessage(parsed.ErrorMessage)}, nil
	}

	out := &Result{Success: true}
	texts := make([]string, 0, len(parsed.ParsedResults))
	for i, pr := range parsed.ParsedResults {
		out.Pages = append(out.Pages, Page{
			PageNumber: i + 1,
			Text:       pr.ParsedText,
			ExitCode:   pr.FileParseExitCode,
		})
		texts = append(texts, pr.ParsedText)
	}
	out.Text = strings.Join(texts, "\n\n")
	return out, nil
}

// ErrorMessage comes back as either a string or a list of strings.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "Unknown error"
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	return "Unknown error"
}

func fileTypeFor(filename string) (fileType, base64Prefix string) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "PNG", "data:image/png;base64,"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "JPG", "data:image/jpeg;base64,"
	default:
		return "PDF", "data:application/pdf;base64,"
	}
}
