package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/services/upload"
	applogger "SmartBank/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrNotTimeSeries  = errors.New("upload holds no dated records")
)

// UploadUseCase stores analysed uploads and announces them on the event backend.
type UploadUseCase struct {
	store     domrepo.UploadStore
	series    *SeriesUseCase
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
}

func NewUploadUseCase(store domrepo.UploadStore, series *SeriesUseCase, publisher domrepo.EventPublisher, metrics domrepo.Metrics, l *applogger.Logger) *UploadUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &UploadUseCase{store: store, series: series, publisher: publisher, metrics: metrics, l: l, now: time.Now}
}

type UploadParams struct {
	FileName string
	Content  []byte
	// Series, when set, ingests the file's dated records into that series.
	Series string
}

// Upload analyses, stores and publishes one file. Upload and event failures
// after the row is stored are logged, not returned.
func (uc *UploadUseCase) Upload(ctx context.Context, p UploadParams) (*models.Upload, error) {
	res, err := upload.Analyze(p.FileName, p.Content)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("upload_analyze")
		}
		return nil, err
	}

	now := uc.now().UTC()
	u := &models.Upload{
		FileName: p.FileName,
		FileSize: int64(len(p.Content)),
		FileType: res.FileType,
		Data:     res.Data,
		Status:   models.UploadProcessed,
		Metadata: models.UploadMetadata{
			OriginalName: p.FileName,
			MimeType:     res.MimeType,
			DataKind:     res.Kind,
			Rows:         res.Rows,
			UploadedAt:   now,
		},
		UploadedAt: now,
	}

	if p.Series != "" {
		if len(res.Series) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotTimeSeries, p.FileName)
		}
		n, err := uc.series.Ingest(ctx, p.Series, res.Series)
		if err != nil {
			return nil, err
		}
		u.Metadata.Series = p.Series
		u.Metadata.Ingested = n
	}

	if err := uc.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.RecordUpload(res.Kind)
	}

	ev := models.UploadEvent{
		EventID:    uuid.NewString(),
		Type:       models.EventUploadProcessed,
		UploadID:   u.ID,
		FileName:   u.FileName,
		FileSize:   u.FileSize,
		DataKind:   res.Kind,
		Rows:       res.Rows,
		Series:     u.Metadata.Series,
		OccurredAt: now,
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishUploadEvent(ctx, ev); err != nil {
			uc.l.Error("publish upload event failed",
				applogger.Int64("upload_id", u.ID),
				applogger.String("event_id", ev.EventID),
				applogger.Error(err))
		}
	}
	uc.l.Info("upload processed",
		applogger.Int64("upload_id", u.ID),
		applogger.String("file", u.FileName),
		applogger.String("kind", res.Kind),
		applogger.Int("rows", res.Rows))
	return u, nil
}

func (uc *UploadUseCase) List(ctx context.Context, limit, offset int) ([]models.UploadSummary, error) {
	return uc.store.List(ctx, limit, offset)
}

func (uc *UploadUseCase) Get(ctx context.Context, id int64) (*models.Upload, error) {
	u, err := uc.store.Get(ctx, id)
	if errors.Is(err, domrepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUploadNotFound, id)
	}
	return u, err
}

// Download renders the stored payload back into its original file format.
func (uc *UploadUseCase) Download(ctx context.Context, id int64) (u *models.Upload, contentType string, body []byte, err error) {
	u, err = uc.Get(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	contentType, body, err = upload.Render(u.FileType, u.Data)
	if err != nil {
		return nil, "", nil, fmt.Errorf("render upload %d: %w", id, err)
	}
	return u, contentType, body, nil
}

func (uc *UploadUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.store.Delete(ctx, id)
	if errors.Is(err, domrepo.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrUploadNotFound, id)
	}
	return err
}
