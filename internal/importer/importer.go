// Package importer turns a job-posting URL into a job draft.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/khrees2412/hirepipe/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pageLoadTimeout = 30 * time.Second
	renderSettle    = 2 * time.Second
	maxBodySize     = 2 << 20
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ErrNoTitle = errors.New("could not extract job title from page")

// descriptionSelectors are tried in order; the first non-empty content wins
var descriptionSelectors = []string{
	`meta[name="description"]`,
	`meta[property="og:description"]`,
}

// Page is what a renderer extracts from a posting
type Page struct {
	Title       string
	Description string
}

// Renderer loads a page and extracts its title and description
type Renderer interface {
	Render(ctx context.Context, pageURL string) (Page, error)
}

// ChromeRenderer renders pages in headless Chrome so client-side boards load fully
type ChromeRenderer struct {
	logger *slog.Logger
}

func NewChromeRenderer(logger *slog.Logger) *ChromeRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeRenderer{logger: logger}
}

func (c *ChromeRenderer) Render(ctx context.Context, pageURL string) (Page, error) {
	ctx, cancel := c.browserContext(ctx)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, pageLoadTimeout)
	defer cancel()

	var page Page
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(renderSettle),
		chromedp.Title(&page.Title),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, sel := range descriptionSelectors {
				var nodes []*cdp.Node
				if err := chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)).Do(ctx); err != nil {
					return err
				}
				for _, n := range nodes {
					if content := strings.TrimSpace(n.AttributeValue("content")); content != "" {
						page.Description = content
						return nil
					}
				}
			}
			return nil
		}),
	)
	if err != nil {
		return Page{}, fmt.Errorf("render %s: %w", pageURL, err)
	}
	return page, nil
}

// browserContext creates a headless browser context. Noisy protocol warnings are dropped.
func (c *ChromeRenderer) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		c.logger.Debug("chromedp", "msg", msg)
	}))

	return ctx, func() {
		cancelCtx()
		cancelAlloc()
	}
}

// HTTPRenderer fetches the raw page without running scripts
type HTTPRenderer struct {
	client *http.Client
}

func NewHTTPRenderer(client *http.Client) *HTTPRenderer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRenderer{client: client}
}

func (h *HTTPRenderer) Render(ctx context.Context, pageURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return ExtractPage(io.LimitReader(resp.Body, maxBodySize))
}

// ExtractPage parses an HTML document and reads its title and description
func ExtractPage(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parse page: %w", err)
	}

	page := Page{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	for _, sel := range descriptionSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			page.Description = strings.TrimSpace(s.AttrOr("content", ""))
			return page.Description == ""
		})
		if page.Description != "" {
			break
		}
	}
	return page, nil
}

// Importer renders a posting and extracts a job draft from it
type Importer struct {
	primary  Renderer
	fallback Renderer
	logger   *slog.Logger
}

// New creates an importer. When primary fails, fallback is tried; either may be nil.
func New(primary, fallback Renderer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{primary: primary, fallback: fallback, logger: logger}
}

// ImportJob renders pageURL and returns a draft with title, company, description and URL set
func (im *Importer) ImportJob(ctx context.Context, pageURL string) (models.Job, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.Job{}, fmt.Errorf("invalid job URL %q", pageURL)
	}

	var renderErr error
	for _, r := range []Renderer{im.primary, im.fallback} {
		if r == nil {
			continue
		}
		page, err := r.Render(ctx, pageURL)
		if err == nil {
			return DraftFromPage(pageURL, page)
		}
		renderErr = err
		im.logger.Warn("page render failed", "url", pageURL, "error", err)
	}
	if renderErr != nil {
		return models.Job{}, renderErr
	}
	return models.Job{}, fmt.Errorf("no renderer available for %s", pageURL)
}

// ParseJob extracts a job draft from the HTML of a posting
func ParseJob(pageURL, html string) (models.Job, error) {
	page, err := ExtractPage(strings.NewReader(html))
	if err != nil {
		return models.Job{URL: pageURL, Status: models.JobDraft}, err
	}
	return DraftFromPage(pageURL, page)
}

// DraftFromPage builds a draft job. Board suffixes after " - " or " | " are cut from the title.
func DraftFromPage(pageURL string, page Page) (models.Job, error) {
	job := models.Job{URL: pageURL, Status: models.JobDraft}

	title := strings.Split(strings.TrimSpace(page.Title), " - ")[0]
	title = strings.Split(title, " | ")[0]
	job.Title = strings.TrimSpace(title)
	if job.Title == "" {
		return job, ErrNoTitle
	}

	job.Company = CompanyFromURL(pageURL)
	job.Description = strings.TrimSpace(page.Description)
	return job, nil
}

// CompanyFromURL guesses the employer: the board slug on greenhouse, the
// subdomain on lever, otherwise the first label of the host
func CompanyFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		if len(segments) > 0 && segments[0] != "" {
			return titleCase(segments[0])
		}
	case strings.HasSuffix(host, "lever.co"):
		if host == "jobs.lever.co" && len(segments) > 0 && segments[0] != "" {
			return titleCase(segments[0])
		}
		if label := strings.Split(host, ".")[0]; label != "jobs" {
			return titleCase(label)
		}
	}
	return titleCase(strings.Split(host, ".")[0])
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
}
