// Package imagegen produces puzzle source images from text prompts. A
// configured HTTP backend is used when available; any failure falls back to
// a deterministic placeholder.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

// Request limits.
const (
	MinSize         = 64
	MaxSize         = 4096
	MaxPromptLength = 500
	DefaultSize     = 512
)

// Formats lists the accepted output formats.
var Formats = []string{"png", "jpeg", "webp"}

// Options controls the generated image.
type Options struct {
	Width  int
	Height int
	Format string
}

// DefaultOptions returns a 512x512 PNG request.
func DefaultOptions() Options {
	return Options{Width: DefaultSize, Height: DefaultSize, Format: "png"}
}

// Image is a generated (or placeholder) image.
type Image struct {
	Prompt        string
	Data          []byte
	Format        string // Encoding of Data
	Width         int
	Height        int
	Duration      time.Duration
	IsPlaceholder bool
}

// Validate checks prompt and options and reports every offending field.
func Validate(prompt string, opts Options) error {
	var fields, msgs []string
	fail := func(field, msg string) {
		fields = append(fields, field)
		msgs = append(msgs, field+" "+msg)
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(prompt)); n == 0 || n > MaxPromptLength {
		fail("prompt", fmt.Sprintf("must be 1-%d characters", MaxPromptLength))
	}
	if opts.Width < MinSize || opts.Width > MaxSize {
		fail("width", fmt.Sprintf("must be between %d and %d", MinSize, MaxSize))
	}
	if opts.Height < MinSize || opts.Height > MaxSize {
		fail("height", fmt.Sprintf("must be between %d and %d", MinSize, MaxSize))
	}
	if !validFormat(opts.Format) {
		fail("format", "must be one of "+strings.Join(Formats, ", "))
	}

	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation("imagegen.generate", strings.Join(msgs, "; "), fields...)
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if strings.EqualFold(f, v) {
			return true
		}
	}
	return false
}

// Client generates images.
type Client struct {
	cfg     Config
	http    *http.Client
	journal *apperr.Journal
	logger  *log.Logger
}

// NewClient creates a client. journal and logger may be nil.
func NewClient(cfg Config, journal *apperr.Journal, logger *log.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		journal: journal,
		logger:  logger,
	}
}

// Generate returns an image for prompt. Only invalid input is an error;
// backend failures are journaled and answered with a placeholder.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (Image, error) {
	opts.Format = strings.ToLower(opts.Format)
	if err := Validate(prompt, opts); err != nil {
		return Image{}, err
	}
	prompt = strings.TrimSpace(prompt)

	if !c.cfg.Configured() {
		if c.logger != nil {
			c.logger.Warn("image service not configured, using placeholder")
		}
		return placeholderImage(prompt, opts)
	}

	start := time.Now()
	img, err := c.fetch(ctx, prompt, opts)
	if err != nil {
		if c.journal != nil {
			c.journal.Record("imagegen.generate", apperr.Network("imagegen.generate", err))
		}
		if c.logger != nil {
			c.logger.Warn("falling back to placeholder image", "err", err)
		}
		return placeholderImage(prompt, opts)
	}
	img.Duration = time.Since(start)
	return img, nil
}

func placeholderImage(prompt string, opts Options) (Image, error) {
	data, err := Placeholder(prompt, opts.Width, opts.Height)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Prompt:        prompt,
		Data:          data,
		Format:        "png",
		Width:         opts.Width,
		Height:        opts.Height,
		IsPlaceholder: true,
	}, nil
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type generateResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Image string `json:"image"`
}

func (c *Client) fetch(ctx context.Context, prompt string, opts Options) (Image, error) {
	body, err := json.Marshal(generateRequest{
		Prompt:         prompt,
		N:              1,
		Size:           fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return Image{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("image API error: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return Image{}, err
	}
	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Image{}, fmt.Errorf("malformed response: %w", err)
	}

	var encoded string
	switch {
	case len(parsed.Data) > 0 && parsed.Data[0].B64JSON != "":
		encoded = parsed.Data[0].B64JSON
	case len(parsed.Data) > 0 && parsed.Data[0].URL != "":
		encoded = parsed.Data[0].URL
	case parsed.Image != "":
		encoded = parsed.Image
	default:
		return Image{}, fmt.Errorf("unexpected response format")
	}

	data, err := decodeDataURL(encoded)
	if err != nil {
		return Image{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("undecodable image: %w", err)
	}

	return Image{
		Prompt: prompt,
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// decodeDataURL accepts raw base64 or a data: URL carrying base64.
func decodeDataURL(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, nil
}
