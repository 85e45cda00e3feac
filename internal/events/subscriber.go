// Package events consumes domain events published to Redis by the other
// jobmate services and turns them into recommendation / saved-search work.
//
// Keeping the scan cost off the publishers' write paths is the point: a
// profile save costs the accounts service one PUBLISH, and this consumer
// absorbs the O(searches × candidates) re-evaluation.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"jobmate/match-service/internal/recs"
	"jobmate/match-service/internal/savedsearch"
)

// Channels consumed from the rest of the platform.
const (
	EventProfileSaved       = "EVENT_PROFILE_SAVED"       // {userId}
	EventJobSaved           = "EVENT_JOB_SAVED"           // {jobId}
	EventApplicationCreated = "EVENT_APPLICATION_CREATED" // {jobId, applicantId}
)

// Subscriber routes incoming events to the recommendation and saved-search
// services.
type Subscriber struct {
	rdb      *redis.Client
	recs     *recs.Service
	searches *savedsearch.Service
}

// NewSubscriber returns a configured Subscriber.
func NewSubscriber(rdb *redis.Client, recSvc *recs.Service, searchSvc *savedsearch.Service) *Subscriber {
	return &Subscriber{rdb: rdb, recs: recSvc, searches: searchSvc}
}

// Run subscribes and processes messages until ctx is cancelled. Handler
// failures are logged, never fatal — every operation is idempotent and the
// next event or sweep repairs missed work.
func (s *Subscriber) Run(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, EventProfileSaved, EventJobSaved, EventApplicationCreated)
	defer sub.Close()

	slog.Info("event subscriber started",
		"channels", []string{EventProfileSaved, EventJobSaved, EventApplicationCreated})

	for {
		select {
		case <-ctx.Done():
			slog.Info("event subscriber stopped")
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				slog.Warn("event subscription closed")
				return
			}
			s.dispatch(ctx, msg.Channel, []byte(msg.Payload))
		}
	}
}

func (s *Subscriber) dispatch(ctx context.Context, channel string, payload []byte) {
	switch channel {
	case EventProfileSaved:
		var ev struct {
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil || ev.UserID == "" {
			slog.Warn("malformed EVENT_PROFILE_SAVED", "payload", string(payload))
			return
		}
		// Regenerating for a recruiter is a no-op inside the service; the
		// saved-search rescan likewise skips recruiter saves.
		if err := s.recs.GenerateJobRecommendations(ctx, ev.UserID); err != nil {
			slog.Error("job recommendations after profile save failed", "userId", ev.UserID, "err", err)
		}
		if err := s.searches.HandleProfileSaved(ctx, ev.UserID); err != nil {
			slog.Error("saved-search rescan after profile save failed", "userId", ev.UserID, "err", err)
		}

	case EventJobSaved:
		var ev struct {
			JobID string `json:"jobId"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil || ev.JobID == "" {
			slog.Warn("malformed EVENT_JOB_SAVED", "payload", string(payload))
			return
		}
		if err := s.recs.GenerateCandidateRecommendations(ctx, ev.JobID); err != nil {
			slog.Error("candidate recommendations after job save failed", "jobId", ev.JobID, "err", err)
		}

	case EventApplicationCreated:
		var ev struct {
			JobID       string `json:"jobId"`
			ApplicantID string `json:"applicantId"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil || ev.JobID == "" || ev.ApplicantID == "" {
			slog.Warn("malformed EVENT_APPLICATION_CREATED", "payload", string(payload))
			return
		}
		// An active application supersedes a recommendation in both directions.
		if err := s.recs.DeleteForApplication(ctx, ev.JobID, ev.ApplicantID); err != nil {
			slog.Error("recommendation cleanup after application failed",
				"jobId", ev.JobID, "applicantId", ev.ApplicantID, "err", err)
		}
	}
}
