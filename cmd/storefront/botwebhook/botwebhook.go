package botwebhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nivanov045/gamestore/internal/order"
)

const (
	SignatureHeader = "X-Storefront-Signature"
	queueSize       = 100
	deliveryTimeout = 6 * time.Second
)

type Signer interface {
	CreateHash(s string) string
}

// Client forwards order payloads to the bot over HTTP. It is a bridge without
// a viewport: Ready and Expand do nothing. Nothing is retried; a failed
// delivery is logged with its payload.
type Client struct {
	url    string
	signer Signer
	client *http.Client
	log    zerolog.Logger
	queue  chan string

	mu      sync.Mutex
	stopped bool
}

func New(url string, signer Signer, log zerolog.Logger) *Client {
	return &Client{
		url:    url,
		signer: signer,
		client: &http.Client{Timeout: deliveryTimeout},
		log:    log,
		queue:  make(chan string, queueSize),
	}
}

func (c *Client) Ready() {}

func (c *Client) Expand() {}

func (c *Client) SendData(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		c.log.Error().Str("payload", payload).Msg("botwebhook: client stopped, payload dropped")
		return
	}
	select {
	case c.queue <- payload:
	default:
		c.log.Error().Str("payload", payload).Msg("botwebhook: queue is full, payload dropped")
	}
}

// Run delivers queued payloads with n workers until ctx is done. Payloads
// still queued at that point are delivered before Run returns; later
// SendData calls are logged and dropped.
func (c *Client) Run(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	c.log.Info().Str("url", c.url).Int("workers", n).Msg("botwebhook: started")
	wg := &sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker(ctx, id)
		}(i)
	}
	wg.Wait()

	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.flush()
	c.log.Info().Msg("botwebhook: stopped")
}

func (c *Client) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.queue:
			c.send(id, payload)
		}
	}
}

// flush delivers what is left in the queue. Only called once no more
// payloads can be enqueued.
func (c *Client) flush() {
	for {
		select {
		case payload := <-c.queue:
			c.send(-1, payload)
		default:
			return
		}
	}
}

func (c *Client) send(worker int, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := c.deliver(ctx, payload); err != nil {
		c.log.Error().Stack().Err(err).Int("worker", worker).Str("payload", payload).Msg("botwebhook: delivery failed")
	}
}

func (c *Client) deliver(ctx context.Context, payload string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(payload))
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(SignatureHeader, c.signer.CreateHash(payload))

	response, err := c.client.Do(request)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer response.Body.Close()
	io.Copy(io.Discard, response.Body)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return errors.Errorf("unexpected status %d", response.StatusCode)
	}

	event := c.log.Debug().Int("status", response.StatusCode)
	if o, err := order.Parse(payload); err == nil {
		event = event.Str("server", o.Server).Str("player_id", o.PlayerID).Str("amount", o.Amount)
	}
	event.Msg("botwebhook: delivered")
	return nil
}
