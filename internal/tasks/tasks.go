package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decoder registration
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/Priyanka03s/travel-sid-sub002/internal/config"
	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
	"github.com/Priyanka03s/travel-sid-sub002/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeListingPublished = "listing:published"
	TypeEarlyBirdClose   = "listing:early_bird_close"
	TypeImageProcess     = "image:process"
)

const (
	queueDefault = "default"
	queueImages  = "images"
)

// --- Task Client (Enqueuing tasks) ---

// IAsynqClient is the subset of asynq.Client used to enqueue tasks.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

// NewAsynqClient connects an asynq client to the same Redis as rdb.
func NewAsynqClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

// ListingTaskPayload identifies the listing a task works on.
type ListingTaskPayload struct {
	ListingID string `json:"listing_id"`
}

// ImageTaskPayload carries an uploaded image awaiting processing.
type ImageTaskPayload struct {
	S3Key     string `json:"s3_key"`
	ListingID string `json:"listing_id"`
}

// Client enqueues listing tasks. It implements services.ITaskEnqueuer.
type Client struct {
	client IAsynqClient
}

// NewClient wraps an asynq client.
func NewClient(client IAsynqClient) *Client {
	return &Client{client: client}
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}
	log.Printf("Enqueued task %s (id=%s queue=%s)", taskType, info.ID, info.Queue)
	return nil
}

// EnqueueListingPublished queues the post-publish task.
func (c *Client) EnqueueListingPublished(ctx context.Context, listingID string) error {
	return c.enqueue(ctx, TypeListingPublished, ListingTaskPayload{ListingID: listingID}, asynq.Queue(queueDefault))
}

// EnqueueEarlyBirdClose schedules a quote refresh for when the early-bird
// window ends. The task ID is derived from the listing and the end time, so
// scheduling the same close twice is a no-op.
func (c *Client) EnqueueEarlyBirdClose(ctx context.Context, listingID string, at time.Time) error {
	taskID := fmt.Sprintf("%s:%s:%d", TypeEarlyBirdClose, listingID, at.Unix())
	err := c.enqueue(ctx, TypeEarlyBirdClose, ListingTaskPayload{ListingID: listingID},
		asynq.Queue(queueDefault), asynq.ProcessAt(at), asynq.TaskID(taskID))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Printf("Early-bird close for listing %s already scheduled", listingID)
		return nil
	}
	return err
}

// EnqueueImageProcess queues an uploaded image for normalization.
func (c *Client) EnqueueImageProcess(ctx context.Context, listingID, imageKey string) error {
	return c.enqueue(ctx, TypeImageProcess, ImageTaskPayload{S3Key: imageKey, ListingID: listingID},
		asynq.Queue(queueImages), asynq.MaxRetry(5))
}

// --- Task Server (Processing tasks) ---

// ListingStore is the part of the listing service the task handlers need.
type ListingStore interface {
	FindListingByID(ctx context.Context, listingID string) (*models.Listing, error)
	RefreshQuote(ctx context.Context, listingID string) (*models.Listing, error)
	AddImage(ctx context.Context, listingID, imageKey string) error
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg            *config.Config
	storageService storage.IS3Storage
	listingStore   ListingStore
	cache          services.IListingCache
}

func NewTaskProcessor(cfg *config.Config, storageService storage.IS3Storage, listingStore ListingStore, cache services.IListingCache) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		storageService: storageService,
		listingStore:   listingStore,
		cache:          cache,
	}
}

// SetupServer configures an Asynq server and the mux for the given worker
// roles. It returns nil when neither role is requested. The caller runs it.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isImageWorker bool, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	if !isBgWorker && !isImageWorker {
		log.Println("No worker role requested, no task server started.")
		return nil, nil
	}

	queues := map[string]int{}
	mux := asynq.NewServeMux()
	if isBgWorker {
		queues[queueDefault] = 3
		mux.HandleFunc(TypeListingPublished, processor.HandleListingPublishedTask)
		mux.HandleFunc(TypeEarlyBirdClose, processor.HandleEarlyBirdCloseTask)
		log.Println("Registered listing task handlers.")
	}
	if isImageWorker {
		queues[queueImages] = 5
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
		log.Println("Registered image processing task handlers.")
	}

	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Queues: queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("ERROR [asynq] task %s payload %s: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)
	return srv, mux
}

// --- Task Handlers ---

func decodeListingPayload(t *asynq.Task) (ListingTaskPayload, error) {
	var payload ListingTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if payload.ListingID == "" {
		return payload, fmt.Errorf("missing listing_id in %s payload: %w", t.Type(), asynq.SkipRetry)
	}
	return payload, nil
}

// HandleListingPublishedTask refreshes the public cache entry of a newly
// published listing.
func (p *TaskProcessor) HandleListingPublishedTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodeListingPayload(t)
	if err != nil {
		return err
	}

	listing, err := p.listingStore.FindListingByID(ctx, payload.ListingID)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return fmt.Errorf("listing %s not found: %w", payload.ListingID, asynq.SkipRetry)
		}
		return err
	}
	if listing.Status != models.StatusPublished {
		log.Printf("Listing %s is %s, skipping publish follow-up", payload.ListingID, listing.Status)
		return nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, listing); err != nil {
			return err
		}
	}
	if listing.Quote != nil {
		log.Printf("Listing %s published: %q at %.2f", payload.ListingID, listing.Title, listing.Quote.FinalPrice)
	} else {
		log.Printf("Listing %s published: %q", payload.ListingID, listing.Title)
	}
	return nil
}

// HandleEarlyBirdCloseTask recomputes the stored quote once the early-bird
// window has ended.
func (p *TaskProcessor) HandleEarlyBirdCloseTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodeListingPayload(t)
	if err != nil {
		return err
	}
	if _, err := p.listingStore.RefreshQuote(ctx, payload.ListingID); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return fmt.Errorf("listing %s not found: %w", payload.ListingID, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

// HandleImageProcessTask downsizes an uploaded image if needed and attaches
// it to the listing.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("Processing image task: S3Key=%s, ListingID=%s", payload.S3Key, payload.ListingID)

	imgData, contentType, err := p.storageService.GetObject(ctx, payload.S3Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("s3 object %s not found: %w", payload.S3Key, asynq.SkipRetry)
		}
		return err
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		return fmt.Errorf("image %s exceeds max size (%d > %d bytes): %w", payload.S3Key, len(imgData), maxSizeBytes, asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return fmt.Errorf("unsupported image format or corrupt image %s: %w", payload.S3Key, asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		log.Printf("Resizing image %s (%s %dx%d, max %d)", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy(), maxDim)
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image %s: %w", payload.S3Key, err)
		}
		if err := p.storageService.PutObject(ctx, payload.S3Key, buf.Bytes(), "image/jpeg"); err != nil {
			return err
		}
	} else {
		log.Printf("Image %s (%s, %s) within limits, kept as uploaded", payload.S3Key, format, contentType)
	}

	if err := p.listingStore.AddImage(ctx, payload.ListingID, payload.S3Key); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return fmt.Errorf("listing %s not found: %w", payload.ListingID, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to attach image %s: %w", payload.S3Key, err)
	}

	log.Printf("Image task processed successfully: Key=%s, ListingID=%s", payload.S3Key, payload.ListingID)
	return nil
}
