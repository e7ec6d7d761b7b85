package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
)

const reportTimeout = 5 * time.Second

// Reporter posts completions to a remote endpoint. Delivery is best-effort:
// failures are logged and never reach the session.
type Reporter struct {
	url    string
	client *http.Client
	log    *slog.Logger
	wg     sync.WaitGroup
}

type reportBody struct {
	Game      string `json:"game"`
	Completed bool   `json:"completed"`
	Score     int    `json:"score"`
	Saved     bool   `json:"saved"`
}

// NewReporter creates a reporter for url. It returns nil when url is empty,
// which sessions treat as "no reporter".
func NewReporter(url string, client *http.Client, log *slog.Logger) *Reporter {
	if url == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: reportTimeout}
	}
	return &Reporter{url: url, client: client, log: logging.Tagged(log, "reporter")}
}

// Report sends o in the background.
func (r *Reporter) Report(o Outcome) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		if err := r.post(ctx, o); err != nil {
			r.log.Warn("report completion", "game", string(o.Game), "err", err)
		}
	}()
}

// Wait blocks until every pending report has finished.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

func (r *Reporter) post(ctx context.Context, o Outcome) error {
	body, err := json.Marshal(reportBody{
		Game:      string(o.Game),
		Completed: true,
		Score:     o.Score,
		Saved:     o.Saved,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, r.url)
	}
	return nil
}
