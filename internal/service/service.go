package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"category/extractor/internal/domain"
	"category/extractor/internal/domain/task"
	"category/extractor/internal/metrics"
	"category/extractor/internal/queue"
	"category/extractor/internal/state"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type ProductExtractor interface {
	Extract(ctx context.Context, req domain.ExtractionRequest) []domain.ExtractedProduct
}

type Service struct {
	extractor   ProductExtractor
	queue       queue.Queue
	jobs        state.JobStore
	minIdleTime time.Duration
	now         func() time.Time
}

// NewService builds the extraction service. queue and jobs may both be nil,
// in which case only synchronous extraction is available.
func NewService(
	extractor ProductExtractor,
	queue queue.Queue,
	jobs state.JobStore,
	minIdleTime int,
) *Service {
	return &Service{
		extractor:   extractor,
		queue:       queue,
		jobs:        jobs,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
		now:         time.Now,
	}
}

func (s *Service) JobsEnabled() bool {
	return s.queue != nil && s.jobs != nil
}

// Extract runs the cascade synchronously and shapes the response.
func (s *Service) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	products := s.extractor.Extract(ctx, req)
	return domain.NewExtractionResult(req.Path, products), nil
}

// Submit stores a queued job and pushes it to the extraction stream.
func (s *Service) Submit(ctx context.Context, req domain.ExtractionRequest) (*domain.Job, error) {
	if !s.JobsEnabled() {
		return nil, domain.ErrJobsDisabled
	}

	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusQueued,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	if _, err := s.queue.AddTask(ctx, &task.ExtractionTask{JobID: job.ID, Request: req}); err != nil {
		return nil, err
	}

	log.Infof("📥 Queued job %s for %s", job.ID, req.Path)
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	if !s.JobsEnabled() {
		return nil, domain.ErrJobsDisabled
	}
	return s.jobs.Get(ctx, id)
}

// RunWorkers consumes the extraction stream until ctx is cancelled.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	if !s.JobsEnabled() {
		return domain.ErrJobsDisabled
	}

	var wg sync.WaitGroup
	streamName := s.queue.Stream(task.ExtractionTaskType)

	if s.minIdleTime > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runAutoClaimer(ctx, streamName)
		}()
	}

	for i := 0; i < max(1, numWorkers); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.runWorker(ctx, workerID, streamName)
		}(i + 1)
	}

	wg.Wait()
	return nil
}

func (s *Service) runAutoClaimer(ctx context.Context, streamName string) {
	ticker := time.NewTicker(s.minIdleTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			consumer := fmt.Sprintf("autoclaimer-%d", time.Now().UnixNano())
			claimed, err := s.queue.AutoClaim(ctx, s.queue.Group(), consumer, streamName, s.minIdleTime)
			if err != nil {
				log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
				continue
			}
			if len(claimed) > 0 {
				log.Infof("🔄 Auto-claimed %d messages from %s", len(claimed), streamName)
			}
			for _, msg := range claimed {
				if err := s.processMessage(ctx, &msg); err != nil {
					log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
				}
			}
		}
	}
}

func (s *Service) runWorker(ctx context.Context, workerID int, streamName string) {
	consumer := fmt.Sprintf("worker-%d", workerID)
	log.Infof("🚀 Starting worker %d as consumer %s", workerID, consumer)

	for {
		select {
		case <-ctx.Done():
			log.Infof("🛑 Worker %d stopping", workerID)
			return
		default:
			msg, err := s.queue.GetTask(ctx, s.queue.Group(), consumer, streamName)
			if err != nil {
				if ctx.Err() == nil {
					log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
				}
				continue
			}
			if msg == nil {
				continue
			}
			if err := s.processMessage(ctx, msg); err != nil {
				log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
			}
		}
	}
}

// processMessage runs one queued job. Malformed messages are acknowledged
// and dropped so they do not cycle through the auto-claimer forever.
func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	streamName := s.queue.Stream(task.ExtractionTaskType)

	extractionTask, err := decodeMessage(msg)
	if err != nil {
		metrics.JobsProcessed.WithLabelValues("invalid").Inc()
		if ackErr := s.queue.AckTask(ctx, streamName, s.queue.Group(), msg.ID); ackErr != nil {
			log.Errorf("❌ Failed to ack invalid message %s: %v", msg.ID, ackErr)
		}
		return err
	}

	job, err := s.jobs.Get(ctx, extractionTask.JobID)
	if err != nil {
		if !errors.Is(err, domain.ErrJobNotFound) {
			return err
		}
		// Expired record; rebuild it from the task so the result is still stored
		job = &domain.Job{ID: extractionTask.JobID, Request: extractionTask.Request, CreatedAt: s.now().UTC()}
	}

	job.Status = domain.JobStatusRunning
	job.UpdatedAt = s.now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	products := s.extractor.Extract(ctx, extractionTask.Request)
	if ctx.Err() != nil {
		// Left pending for another consumer to claim
		return ctx.Err()
	}

	job.Status = domain.JobStatusCompleted
	job.Result = domain.NewExtractionResult(extractionTask.Request.Path, products)
	job.UpdatedAt = s.now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	if err := s.queue.AckTask(ctx, streamName, s.queue.Group(), msg.ID); err != nil {
		return fmt.Errorf("failed to acknowledge message %s: %w", msg.ID, err)
	}

	metrics.JobsProcessed.WithLabelValues(string(domain.JobStatusCompleted)).Inc()
	log.Infof("✅ Job %s completed with %d products", job.ID, job.Result.Count)
	return nil
}

func decodeMessage(msg *redis.XMessage) (*task.ExtractionTask, error) {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid task type in message %s", msg.ID)
	}
	if taskType != task.ExtractionTaskType {
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	extractionTask, err := task.UnmarshalTask[task.ExtractionTask]([]byte(taskData))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction task data: %w", err)
	}
	return extractionTask, nil
}

func normalizeRequest(req domain.ExtractionRequest) (domain.ExtractionRequest, error) {
	path, err := domain.NewCategoryPath(req.Path.Main, req.Path.Sub, req.Path.SubSub)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}
	return domain.ExtractionRequest{Path: path, RetailerURL: strings.TrimSpace(req.RetailerURL)}, nil
}
