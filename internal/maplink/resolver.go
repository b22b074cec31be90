package maplink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultMaxHops   = 10
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// State is the terminal state of one shortlink expansion.
type State string

const (
	StateResolved State = "resolved"
	StateTimedOut State = "timed_out"
	StateErrored  State = "errored"
	StateLooped   State = "looped"
	StateHopLimit State = "hop_limit"
)

// Expansion is the outcome of following a shortlink. URL is the input
// itself for every state other than StateResolved.
type Expansion struct {
	URL   string
	State State
	Hops  int
}

// Inspection reports everything known about a map reference.
type Inspection struct {
	OriginalURL  string       `json:"originalUrl"`
	ResolvedURL  string       `json:"resolvedUrl"`
	IsShortlink  bool         `json:"isShortlink"`
	IsGoogleMaps bool         `json:"isGoogleMaps"`
	Coordinates  *Coordinates `json:"coordinates"`
	State        State        `json:"-"`
}

type ResolverConfig struct {
	Timeout   time.Duration
	MaxHops   int
	UserAgent string
	// IsShortlink decides which redirect targets are followed further.
	IsShortlink func(string) bool
	// OnExpansion is called once per expansion with its terminal state.
	OnExpansion func(State)
}

// Resolver expands shortlinks and extracts coordinates from map links.
type Resolver struct {
	client *http.Client
	cfg    ResolverConfig
	logger *logger.Logger
}

// NewResolver builds a resolver. The HTTP client is copied and never follows
// redirects on its own; a nil client uses a fresh one.
func NewResolver(cfg ResolverConfig, client *http.Client, log *logger.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxHops <= 0 {
		cfg.MaxHops = DefaultMaxHops
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.IsShortlink == nil {
		cfg.IsShortlink = IsShortlink
	}
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{client: &c, cfg: cfg, logger: log.Named("maplink")}
}

// IsShortlink reports whether raw points at a Google Maps shortlink host.
func IsShortlink(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "goo.gl" || strings.HasSuffix(host, ".goo.gl") || strings.HasPrefix(host, "maps.app.")
}

// IsGoogleMaps reports whether raw looks like any Google Maps link.
func IsGoogleMaps(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "google.com/maps") ||
		strings.Contains(lower, "maps.google.") ||
		IsShortlink(raw)
}

// Expand follows the redirect chain of a shortlink. One deadline covers the
// whole chain; hop and visited-set limits stop redirect loops.
func (r *Resolver) Expand(ctx context.Context, raw string) Expansion {
	exp := r.expand(ctx, raw)
	if r.cfg.OnExpansion != nil {
		r.cfg.OnExpansion(exp.State)
	}
	return exp
}

func (r *Resolver) expand(ctx context.Context, raw string) Expansion {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	current := raw
	visited := make(map[string]struct{}, r.cfg.MaxHops)
	for hop := 0; hop < r.cfg.MaxHops; hop++ {
		if _, seen := visited[current]; seen {
			r.logger.Warn("Shortlink redirect loop detected", zap.String("url", raw), zap.String("at", current), zap.Int("hops", hop))
			return Expansion{URL: raw, State: StateLooped, Hops: hop}
		}
		visited[current] = struct{}{}

		next, redirected, err := r.fetch(ctx, current)
		if err != nil {
			if isTimeout(ctx, err) {
				r.logger.Warn("Shortlink resolution timed out", zap.String("url", raw), zap.Int("hops", hop))
				return Expansion{URL: raw, State: StateTimedOut, Hops: hop}
			}
			r.logger.Warn("Shortlink resolution failed", zap.String("url", raw), zap.Error(err))
			return Expansion{URL: raw, State: StateErrored, Hops: hop}
		}
		if !redirected {
			return Expansion{URL: current, State: StateResolved, Hops: hop}
		}
		if !r.cfg.IsShortlink(next) {
			return Expansion{URL: next, State: StateResolved, Hops: hop + 1}
		}
		current = next
	}

	r.logger.Warn("Shortlink redirect chain too long", zap.String("url", raw), zap.Int("max_hops", r.cfg.MaxHops))
	return Expansion{URL: raw, State: StateHopLimit, Hops: r.cfg.MaxHops}
}

// fetch issues one GET and returns the absolute redirect target, if any.
func (r *Resolver) fetch(ctx context.Context, target string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	location := resp.Header.Get("Location")
	if resp.StatusCode < 300 || resp.StatusCode >= 400 || location == "" {
		return "", false, nil
	}

	base, err := url.Parse(target)
	if err != nil {
		return "", false, fmt.Errorf("parse %q: %w", target, err)
	}
	next, err := base.Parse(location)
	if err != nil {
		return "", false, fmt.Errorf("parse location %q: %w", location, err)
	}
	return next.String(), true, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Resolve turns a map reference into coordinates. Shortlinks are expanded
// first and only the expanded URL is inspected.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Coordinates, bool) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return Coordinates{}, false
	}
	if r.cfg.IsShortlink(target) {
		target = r.Expand(ctx, target).URL
	}
	return Extract(target)
}

// Inspect resolves raw and reports the intermediate results as well.
func (r *Resolver) Inspect(ctx context.Context, raw string) Inspection {
	raw = strings.TrimSpace(raw)
	in := Inspection{
		OriginalURL:  raw,
		ResolvedURL:  raw,
		IsShortlink:  r.cfg.IsShortlink(raw),
		IsGoogleMaps: IsGoogleMaps(raw),
		State:        StateResolved,
	}
	if in.IsShortlink {
		exp := r.Expand(ctx, raw)
		in.ResolvedURL = exp.URL
		in.State = exp.State
	}
	if c, ok := Extract(in.ResolvedURL); ok {
		in.Coordinates = &c
	}
	return in
}
