// Package jobdesc resolves the job description experts are scored against.
package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Default is used when no source is configured.
const Default = "Expert needed in AI, Robotics, and Data Analysis with strong experience in Project Management and SolidWorks."

const (
	fetchTimeout = 30 * time.Second
	maxBodyBytes = 2 << 20
)

var (
	whitespace = regexp.MustCompile(`\s+`)

	// ErrEmpty is returned when a configured source yields no text.
	ErrEmpty = errors.New("job description is empty")
)

// Source lists the places a job description can come from. The first
// non-empty field wins: Text, then File, then URL.
type Source struct {
	Text string `mapstructure:"text"`
	File string `mapstructure:"file"`
	URL  string `mapstructure:"url" validate:"omitempty,url"`
}

// Loader reads job descriptions. The zero value is ready to use.
type Loader struct {
	Client *http.Client
}

// Load resolves src with a default Loader.
func Load(ctx context.Context, src Source) (string, error) {
	return (&Loader{}).Load(ctx, src)
}

// Load returns the job description described by src, or Default when src is
// empty.
func (l *Loader) Load(ctx context.Context, src Source) (string, error) {
	switch {
	case strings.TrimSpace(src.Text) != "":
		return strings.TrimSpace(src.Text), nil
	case strings.TrimSpace(src.File) != "":
		return l.fromFile(strings.TrimSpace(src.File))
	case strings.TrimSpace(src.URL) != "":
		return l.fromURL(ctx, strings.TrimSpace(src.URL))
	default:
		return Default, nil
	}
}

func (l *Loader) fromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}

	text := strings.TrimSpace(string(data))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		if text, err = HTMLText(text); err != nil {
			return "", fmt.Errorf("parse job description %s: %w", path, err)
		}
	}

	if text == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return text, nil
}

func (l *Loader) fromURL(ctx context.Context, url string) (string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,text/plain;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job description: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch job description %s: HTTP status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read job description body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "text/plain" {
		if text, err = HTMLText(text); err != nil {
			return "", fmt.Errorf("parse job description %s: %w", url, err)
		}
	}

	if text == "" {
		return "", fmt.Errorf("%s: %w", url, ErrEmpty)
	}
	return text, nil
}

// HTMLText reduces an HTML document to its visible text with whitespace
// collapsed.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()

	text := doc.Find("body").Text()
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " ")), nil
}
