package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	jobsPath        = "/jobs"
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
	defaultAgent    = "cv-matcher"
	// Max value per page accepted by the catalog service.
	perPage = "100"
)

// Client fetches job records from a remote catalog service. The engine only
// sees the snapshot it returns; updates made mid-call are not observed.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

func NewClient(ctx context.Context, logger *zap.Logger, baseURL, token string) *Client {
	return &Client{
		ctx:     ctx,
		token:   token,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: defaultAgent,
	}
}

type itemResponse struct {
	Items   []map[string]any
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

// List returns a snapshot of all job records, following pagination. Records
// that fail boundary validation are reported, not fatal.
func (c *Client) List() (*Jobs, []RejectedRecord, error) {
	q := url.Values{}
	q.Set("per_page", perPage)

	items, err := c.getItems(c.BaseURL+jobsPath, q)
	if err != nil {
		return nil, nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs, rejected := Decode(items)
	return jobs, rejected, nil
}

func (c *Client) getItems(rawURL string, q url.Values) ([]map[string]any, error) {
	var items []map[string]any

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	response, err := c.getPage(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from catalog",
		zap.Int("pages", response.Pages),
		zap.Int("max items per page", response.PerPage),
	)

	items = append(items, response.Items...)

	for response.Page < (response.Pages - 1) {
		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", response.Page+1, response.Pages),
		))

		response, err = c.getPage(addPage(req, response.Page+1))
		if err != nil {
			return nil, err
		}

		items = append(items, response.Items...)
	}

	return items, nil
}

func (c *Client) getPage(req *http.Request) (*itemResponse, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return parseItemResponse(resp)
}

func parseItemResponse(resp *http.Response) (*itemResponse, error) {
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.ReadCloser
	var err error
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer body.Close()
	default:
		body = resp.Body
		defer body.Close()
	}

	var response *itemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	return response, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

// addPage adds page parameter to request URL.
func addPage(req *http.Request, page int) *http.Request {
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	return req
}
