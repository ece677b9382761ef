package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Pinger periodically issues a HEAD request against the service's own /ping
// route so free-tier hosts don't put the process to sleep between requests.
type Pinger struct {
	cron     *cron.Cron
	client   *http.Client
	url      string
	interval time.Duration
	ctx      context.Context
}

// NewPinger creates a Pinger that hits url every interval.
func NewPinger(ctx context.Context, url string, interval time.Duration) *Pinger {
	return &Pinger{
		cron:     cron.New(),
		client:   &http.Client{Timeout: 10 * time.Second},
		url:      url,
		interval: interval,
		ctx:      ctx,
	}
}

// Start registers the ping job and starts the cron loop.
func (p *Pinger) Start() error {
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, p.ping); err != nil {
		return fmt.Errorf("register keep-alive job: %w", err)
	}
	p.cron.Start()
	log.Info().Str("url", p.url).Dur("interval", p.interval).Msg("keep-alive started")
	return nil
}

// Stop stops the cron loop.
func (p *Pinger) Stop() {
	p.cron.Stop()
	log.Info().Msg("keep-alive stopped")
}

func (p *Pinger) ping() {
	req, err := http.NewRequestWithContext(p.ctx, http.MethodHead, p.url, nil)
	if err != nil {
		log.Error().Err(err).Msg("keep-alive request build failed")
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("self-ping failed")
		return
	}
	resp.Body.Close()
	log.Info().Int("status", resp.StatusCode).Msg("self-ping")
}
