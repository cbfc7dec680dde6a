/*
Package pension looks up national pension workplace registrations to
cross-check a company's insured headcount.

PURPOSE:
  The public registry masks business registration numbers and returns
  loose prefix matches, so a lookup is a two-step dance: search
  workplaces by the first six digits of the registration number, resolve
  the one workplace that actually belongs to the company, then fetch its
  subscriber count for the current reference month.

MATCHING:
  Stage 1 keeps candidates whose unmasked digits are a prefix of the full
  registration number. Stage 2, needed only when stage 1 is ambiguous,
  matches on workplace name containment in either direction. A single
  stage-1 survivor wins outright; zero survivors is a lookup failure, not
  an error in the transport sense.
*/
package pension

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound means the registry has no workplace for the company.
	ErrNotFound = errors.New("pension: no matching workplace")
	// ErrUpstream wraps registry-side failures (non-00 result codes).
	ErrUpstream = errors.New("pension: registry error")
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Workplace is one registry row. The registration number comes back
// masked (e.g. "123456*****").
type Workplace struct {
	Seq              string `json:"seq"`
	Name             string `json:"wkplNm"`
	MaskedRegNo      string `json:"bzowrRgstNo"`
	RoadAddress      string `json:"wkplRoadNmDtlAddr"`
	JoinStatusCode   string `json:"wkplJnngStcd"`
	StyleCode        string `json:"wkplStylDvcd"`
	DataCreatedMonth string `json:"dataCrtYm"`
}

// Status is the resolved subscriber snapshot for one workplace.
type Status struct {
	Workplace       Workplace
	SubscriberCount int
	ReferenceMonth  string // "200601" layout
}

type envelope[T any] struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item T `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// itemList tolerates the registry's single-object-or-array quirk.
type itemList[T any] []T

func (l *itemList[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = itemList[T]{one}
	return nil
}

type statusItem struct {
	SubscriberCount flexInt `json:"jnngpCnt"`
	ApplicantCount  flexInt `json:"applcCnt"`
}

// flexInt accepts both number and string encodings; the registry uses
// either depending on the endpoint.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return fmt.Errorf("pension: bad count %q: %w", s, err)
	}
	*n = flexInt(v)
	return nil
}

// =============================================================================
// MATCHING
// =============================================================================

// MatchByRegNo keeps workplaces whose unmasked registration digits
// prefix the full number. An all-masked row matches everything; the
// name stage exists for exactly that case.
func MatchByRegNo(candidates []Workplace, regNo string) []Workplace {
	var out []Workplace
	for _, w := range candidates {
		unmasked := strings.ReplaceAll(w.MaskedRegNo, "*", "")
		if strings.HasPrefix(regNo, unmasked) {
			out = append(out, w)
		}
	}
	return out
}

// MatchByName narrows an ambiguous registration-number match using the
// workplace name. Containment runs both directions because the registry
// name and the registered corporate name truncate each other freely.
func MatchByName(candidates []Workplace, name string) (Workplace, bool) {
	if name == "" {
		return Workplace{}, false
	}
	for _, w := range candidates {
		if w.Name == "" {
			continue
		}
		if strings.Contains(w.Name, name) || strings.Contains(name, w.Name) {
			return w, true
		}
	}
	return Workplace{}, false
}

// Resolve runs both stages and returns the single workplace for the
// company, or ErrNotFound.
func Resolve(candidates []Workplace, regNo, name string) (Workplace, error) {
	byRegNo := MatchByRegNo(candidates, regNo)
	switch len(byRegNo) {
	case 0:
		return Workplace{}, ErrNotFound
	case 1:
		return byRegNo[0], nil
	}
	if w, ok := MatchByName(byRegNo, name); ok {
		return w, nil
	}
	return Workplace{}, ErrNotFound
}

// =============================================================================
// CLIENT
// =============================================================================

const (
	defaultBaseURL = "https://apis.data.go.kr/B552015/NpsBplcInfoInqireServiceV2"
	searchPath     = "/getBassInfoSearchV2"
	statusPath     = "/getPdAcctoSttusInfoSearchV2"

	regNoPrefixLen = 6
)

// Client calls the workplace registry. Zero value is not usable; use
// NewClient.
type Client struct {
	baseURL    string
	serviceKey string
	http       *fasthttp.Client
	timeout    time.Duration
	now        func() time.Time
}

type Option func(*Client)

// WithBaseURL overrides the registry endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithClock overrides the reference-month clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(serviceKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		serviceKey: serviceKey,
		http:       &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		timeout:    10 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search lists workplaces registered under the first six digits of the
// registration number.
func (c *Client) Search(ctx context.Context, regNo string) ([]Workplace, error) {
	if len(regNo) < regNoPrefixLen {
		return nil, fmt.Errorf("pension: registration number %q too short", regNo)
	}
	uri := fmt.Sprintf("%s%s?serviceKey=%s&bzowrRgstNo=%s&pageNo=1&numOfRows=10&dataType=json",
		c.baseURL, searchPath, c.serviceKey, regNo[:regNoPrefixLen])

	body, err := c.get(ctx, uri)
	if err != nil {
		return nil, err
	}

	var env envelope[itemList[Workplace]]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("pension: decode search response: %w", err)
	}
	if code := env.Response.Header.ResultCode; code != "00" {
		return nil, fmt.Errorf("%w: %s %s", ErrUpstream, code, env.Response.Header.ResultMsg)
	}
	return env.Response.Body.Items.Item, nil
}

// Subscribers fetches the subscriber count for a resolved workplace in
// the current reference month.
func (c *Client) Subscribers(ctx context.Context, seq string) (int, string, error) {
	month := c.now().Format("200601")
	uri := fmt.Sprintf("%s%s?serviceKey=%s&seq=%s&stdrYm=%s&pageNo=1&numOfRows=10&dataType=json",
		c.baseURL, statusPath, c.serviceKey, seq, month)

	body, err := c.get(ctx, uri)
	if err != nil {
		return 0, month, err
	}

	var env envelope[itemList[statusItem]]
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, month, fmt.Errorf("pension: decode status response: %w", err)
	}
	items := env.Response.Body.Items.Item
	if len(items) == 0 {
		return 0, month, nil
	}
	count := int(items[0].SubscriberCount)
	if count == 0 {
		count = int(items[0].ApplicantCount)
	}
	return count, month, nil
}

// Lookup is the full flow: search, resolve, count.
func (c *Client) Lookup(ctx context.Context, regNo, companyName string) (Status, error) {
	candidates, err := c.Search(ctx, regNo)
	if err != nil {
		return Status{}, err
	}
	if len(candidates) == 0 {
		return Status{}, ErrNotFound
	}
	workplace, err := Resolve(candidates, regNo, companyName)
	if err != nil {
		return Status{}, err
	}
	count, month, err := c.Subscribers(ctx, workplace.Seq)
	if err != nil {
		return Status{}, err
	}
	return Status{Workplace: workplace, SubscriberCount: count, ReferenceMonth: month}, nil
}

func (c *Client) get(ctx context.Context, uri string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("pension: registry request: %w", err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUpstream, code)
	}
	// Copy out: the response buffer is pooled.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
