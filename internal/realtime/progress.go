package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"bimcloud/internal/pipeline"
)

// Reporter publishes run progress events to NATS. A reporter whose connection
// could not be established is a valid no-op: progress publishing must never
// fail a conversion run.
type Reporter struct {
	nc     *nats.Conn
	tenant string
}

// NewReporter connects to NATS at url. On connection failure it returns a
// no-op reporter and logs a warning instead of an error.
func NewReporter(url, tenant string) *Reporter {
	if url == "" {
		return &Reporter{tenant: tenant}
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		log.Printf("WARN: could not connect to NATS at %s, progress reporting disabled: %v", url, err)
		return &Reporter{tenant: tenant}
	}
	return &Reporter{nc: nc, tenant: tenant}
}

// Publish sends one progress event. Errors are logged and swallowed.
func (r *Reporter) Publish(p pipeline.Progress) {
	if r.nc == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("WARN: failed to marshal progress event: %v", err)
		return
	}

	subject := fmt.Sprintf("run.%s.%s.progress", r.tenant, p.RunID)
	if err := r.nc.Publish(subject, data); err != nil {
		log.Printf("WARN: failed to publish progress to %s: %v", subject, err)
	}
}

// ReportFunc adapts the reporter to the pipeline's progress callback.
func (r *Reporter) ReportFunc() pipeline.ProgressFunc {
	return r.Publish
}

// Close flushes pending publishes and drops the connection.
func (r *Reporter) Close() {
	if r.nc == nil {
		return
	}
	if err := r.nc.Drain(); err != nil {
		log.Printf("WARN: failed to drain NATS connection: %v", err)
	}
}
