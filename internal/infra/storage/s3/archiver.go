package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roomrates/internal/app/dto"
	"roomrates/internal/app/policies"
	domainpricing "roomrates/internal/domain/pricing"
	domainrange "roomrates/internal/domain/shared/daterange"
)

// Archiver writes run snapshots as JSON objects into an S3-compatible bucket.
type Archiver struct {
	bucket         string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

var _ policies.SnapshotArchiver = (*Archiver)(nil)

// NewArchiver configures an archiver using the provided endpoint and credentials.
func NewArchiver(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Archiver, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	client, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &Archiver{bucket: bucket, client: client, logger: logger}, nil
}

func (a *Archiver) Archive(ctx context.Context, run domainpricing.Run) (string, error) {
	body, err := json.Marshal(newSnapshot(run))
	if err != nil {
		return "", fmt.Errorf("s3: encode snapshot: %w", err)
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}
	key := ObjectKey(run)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	if a.logger != nil {
		a.logger.Debug("run snapshot archived", "bucket", a.bucket, "key", key, "rows", len(run.Rows))
	}
	return key, nil
}

// ObjectKey is runs/{hotel}/{day}/{run}.json, the day taken from the run's creation time.
func ObjectKey(run domainpricing.Run) string {
	return fmt.Sprintf("runs/%s/%s/%s.json", run.HotelID, domainrange.FormatDay(run.CreatedAt), run.ID)
}

type snapshot struct {
	RunID     string          `json:"run_id"`
	HotelID   string          `json:"hotel_id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	CreatedAt string          `json:"created_at"`
	Products  []string        `json:"room_product_ids"`
	Rates     []dto.DailyRate `json:"rates"`
}

func newSnapshot(run domainpricing.Run) snapshot {
	products := make([]string, 0, len(run.Products))
	for _, p := range run.Products {
		products = append(products, string(p))
	}
	return snapshot{
		RunID:     run.ID,
		HotelID:   run.HotelID,
		From:      run.From,
		To:        run.To,
		CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
		Products:  products,
		Rates:     dto.MapDailyRates(run.Rows),
	}
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	a.bucketInitOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			a.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return a.bucketInitErr
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
