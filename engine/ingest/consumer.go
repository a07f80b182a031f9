package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	// IngestSubject carries ingestion jobs.
	IngestSubject = "actuary.ingest"
	// DLQSubject receives jobs that exhausted their retries.
	DLQSubject = "actuary.ingest.dlq"
	// MaxRetries bounds re-publish attempts per job.
	MaxRetries = 3
)

// Job asks the worker to ingest one document.
type Job struct {
	Path string `json:"path"`
}

// dlqMessage is published to the DLQ on repeated failure.
type dlqMessage struct {
	Job     Job    `json:"job"`
	Error   string `json:"error"`
	Retries int    `json:"retries"`
}

// StartConsumer subscribes to the ingest subject and runs each job through
// the pipeline, with retry and DLQ support. Jobs are processed one at a
// time in subscription order.
func StartConsumer(nc *nats.Conn, svc *Service, log *slog.Logger) (*nats.Subscription, error) {
	if log == nil {
		log = slog.Default()
	}

	return nc.Subscribe(IngestSubject, func(msg *nats.Msg) {
		var job Job
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			log.Error("ingest: unmarshal failed", "error", err)
			return
		}

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get("X-Retry-Count"); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}

		ctx := context.Background()
		report, err := svc.IngestFile(ctx, job.Path)
		if err != nil {
			retries++
			log.Error("ingest: job failed",
				"path", job.Path,
				"error", err,
				"retry", retries,
			)

			if retries >= MaxRetries {
				dlq := dlqMessage{
					Job:     job,
					Error:   err.Error(),
					Retries: retries,
				}
				data, _ := json.Marshal(dlq)
				if pubErr := nc.Publish(DLQSubject, data); pubErr != nil {
					log.Error("ingest: DLQ publish failed", "error", pubErr)
				}
			} else {
				retryMsg := nats.NewMsg(IngestSubject)
				retryMsg.Data = msg.Data
				retryMsg.Header = nats.Header{}
				retryMsg.Header.Set("X-Retry-Count", fmt.Sprintf("%d", retries))
				if pubErr := nc.PublishMsg(retryMsg); pubErr != nil {
					log.Error("ingest: retry publish failed", "error", pubErr)
				}
			}
		} else {
			log.Info("ingest: job done",
				"path", job.Path,
				"stored", report.Stored,
				"failed", report.Failed,
			)
		}

		// Ack if JetStream.
		if msg.Reply != "" {
			_ = msg.Ack()
		}
	})
}
