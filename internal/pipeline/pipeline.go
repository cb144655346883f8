package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"image-service/internal/apperr"
	"image-service/internal/classify"
	"image-service/internal/logging"
	"image-service/internal/media"
	"image-service/internal/metadata"
	"image-service/internal/metrics"
	"image-service/internal/registry"
	"image-service/internal/signature"
	"image-service/internal/startup"
	"image-service/internal/store"
)

// Pipeline routes uploaded files through classification, decode or
// normalization, thumbnailing, metadata extraction, and signing.
type Pipeline struct {
	cfg        *startup.Config
	classifier *classify.Classifier
	store      *store.Store
	registry   *registry.Registry
	engine     *signature.Engine
}

// Upload is one file handed to the pipeline by a handler.
type Upload struct {
	Filename string
	Data     io.Reader
}

// ImageResult is the outcome payload for a successfully processed image.
type ImageResult struct {
	Filename      string            `json:"filename"`
	OriginalPath  string            `json:"originalPath"`
	ThumbnailPath string            `json:"thumbnailPath"`
	Metadata      map[string]string `json:"metadata"`
}

// PresetResult is the outcome payload for a successfully signed preset.
type PresetResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	UserID   string `json:"userId"`
	FileType string `json:"fileType"`
}

// New creates a Pipeline. The signature engine is only constructed when
// preset signing is enabled in cfg.
func New(cfg *startup.Config, st *store.Store, reg *registry.Registry) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		classifier: classify.New(cfg.RAWExtensions, cfg.ImageExtensions),
		store:      st,
		registry:   reg,
	}
	if cfg.PresetSigningEnabled {
		p.engine = signature.NewEngine(cfg.PresetSecret)
	}
	return p
}

// Classifier exposes the pipeline's classifier for validation in
// handlers.
func (p *Pipeline) Classifier() *classify.Classifier { return p.classifier }

// NewAssetID returns a stable asset stem: a random 128-bit token plus a
// coarse upload timestamp.
func NewAssetID() string {
	u := uuid.New()
	return fmt.Sprintf("%s_%d", hex.EncodeToString(u[:]), time.Now().Unix())
}

// ProcessImage runs one image upload through the full pipeline and
// returns its outcome record.
func (p *Pipeline) ProcessImage(ctx context.Context, up Upload) (*ImageResult, error) {
	kind, ext, err := p.classifier.Detect(up.Filename)
	if err != nil || kind == classify.KindUnsupported || kind == classify.KindPreset {
		metrics.PipelineFilesTotal.WithLabelValues("unsupported", "error").Inc()
		return nil, apperr.Validation(fmt.Sprintf(
			"File type not allowed. Supported: %s", strings.Join(p.classifier.AllowedImage(), ", ")))
	}

	assetID := NewAssetID()
	storedName := assetID + ".jpg"
	stagedPath := p.store.TempPath(storedName)

	switch kind {
	case classify.KindRAW:
		err = p.decodeRAWUpload(ctx, up, assetID, ext, stagedPath)
	default:
		err = p.normalizeRasterUpload(up, ext, stagedPath)
	}
	if err != nil {
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	if err := p.store.Promote(stagedPath, store.FolderOriginals, storedName); err != nil {
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, apperr.Internal(err)
	}

	originalPath, _ := p.store.Path(store.FolderOriginals, storedName)

	thumbName := assetID + "_thumb.jpg"
	if err := p.makeThumbnail(originalPath, thumbName); err != nil {
		p.store.Remove(store.FolderOriginals, storedName)
		metrics.PipelineFilesTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	fields := p.extractMetadata(originalPath)
	p.recordAsset(ctx, &registry.Asset{
		AssetID:       assetID,
		OriginalName:  up.Filename,
		Kind:          string(kind),
		StoredName:    storedName,
		ThumbnailName: thumbName,
		Size:          fileSize(originalPath),
	})

	metrics.PipelineFilesTotal.WithLabelValues(string(kind), "success").Inc()
	logging.Info("Processed %s upload %s as %s", kind, up.Filename, storedName)

	return &ImageResult{
		Filename:      storedName,
		OriginalPath:  "/uploads/originals/" + storedName,
		ThumbnailPath: "/uploads/thumbnails/" + thumbName,
		Metadata:      fields,
	}, nil
}

// decodeRAWUpload stages the RAW source to disk, decodes it to a JPEG
// at stagedPath, and always removes the RAW source before returning.
func (p *Pipeline) decodeRAWUpload(ctx context.Context, up Upload, assetID, ext, stagedPath string) error {
	rawPath, err := p.store.StageTemp(assetID+"-*."+ext, up.Data)
	if err != nil {
		return apperr.Internal(err)
	}
	defer os.Remove(rawPath)

	defer observeStage("decode")()
	return media.DecodeRAW(ctx, rawPath, stagedPath, startup.NormalizeJPEGQuality)
}

// normalizeRasterUpload writes the uploaded raster directly to its
// staged JPEG path then re-encodes it in place.
func (p *Pipeline) normalizeRasterUpload(up Upload, ext, stagedPath string) error {
	f, err := os.Create(stagedPath)
	if err != nil {
		return apperr.Internal(err)
	}
	if _, err := io.Copy(f, up.Data); err != nil {
		f.Close()
		return apperr.Internal(err)
	}
	if err := f.Close(); err != nil {
		return apperr.Internal(err)
	}

	defer observeStage("normalize")()
	return media.Normalize(stagedPath, ext, startup.NormalizeJPEGQuality)
}

func (p *Pipeline) makeThumbnail(originalPath, thumbName string) error {
	stagedThumb := p.store.TempPath(thumbName)

	done := observeStage("thumbnail")
	err := media.CreateThumbnail(originalPath, stagedThumb, p.cfg.ThumbnailHeight, startup.ThumbnailJPEGQuality)
	done()
	if err != nil {
		os.Remove(stagedThumb)
		return err
	}

	if err := p.store.Promote(stagedThumb, store.FolderThumbnails, thumbName); err != nil {
		os.Remove(stagedThumb)
		return apperr.Internal(err)
	}
	return nil
}

func (p *Pipeline) extractMetadata(path string) map[string]string {
	defer observeStage("metadata")()
	return metadata.Extract(path)
}

// ProcessPreset stages a preset sidecar, runs the signature engine
// against it, and promotes it into the presets folder.
func (p *Pipeline) ProcessPreset(ctx context.Context, up Upload, userID string) (*PresetResult, error) {
	if userID == "" {
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Validation("User identity required")
	}
	if p.engine == nil {
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Validation("Preset signing is not configured")
	}

	kind, ext, err := p.classifier.DetectPreset(up.Filename)
	if err != nil || kind != classify.KindPreset {
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Validation("File type not allowed. Supported: xmp, lrtemplate, dcp, dng")
	}

	assetID := NewAssetID()
	storedName := assetID + "." + ext
	stagedPath := p.store.TempPath(storedName)

	f, err := os.Create(stagedPath)
	if err != nil {
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Internal(err)
	}
	if _, err := io.Copy(f, up.Data); err != nil {
		f.Close()
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Internal(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Internal(err)
	}

	done := observeStage("sign")
	result, err := p.engine.Process(stagedPath, userID)
	done()
	if err != nil {
		// The staged copy is discarded on every failure, including
		// ownership violations.
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, err
	}

	if err := p.store.Promote(stagedPath, store.FolderPresets, storedName); err != nil {
		os.Remove(stagedPath)
		metrics.PipelineFilesTotal.WithLabelValues("preset", "error").Inc()
		return nil, apperr.Internal(err)
	}

	presetPath, _ := p.store.Path(store.FolderPresets, storedName)
	p.recordAsset(ctx, &registry.Asset{
		AssetID:      assetID,
		OriginalName: up.Filename,
		Kind:         "preset",
		StoredName:   storedName,
		OwnerID:      userID,
		Signature:    result.Signature,
		Size:         fileSize(presetPath),
	})

	metrics.PipelineFilesTotal.WithLabelValues("preset", "success").Inc()
	logging.Info("Signed preset %s for user %s as %s", up.Filename, userID, storedName)

	return &PresetResult{
		Filename: storedName,
		Path:     "/uploads/presets/" + storedName,
		UserID:   userID,
		FileType: ext,
	}, nil
}

// recordAsset persists registry bookkeeping. Registry failures are
// logged but never fail an upload that already produced its artifacts.
func (p *Pipeline) recordAsset(ctx context.Context, a *registry.Asset) {
	if p.registry == nil {
		return
	}
	if err := p.registry.Record(ctx, a); err != nil {
		logging.Error("Failed to record asset %s: %v", a.AssetID, err)
	}
}

func observeStage(stage string) func() {
	start := time.Now()
	return func() {
		metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
