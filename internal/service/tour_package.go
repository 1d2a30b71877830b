package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourapi/internal/media"
	"tourapi/internal/model"
	"tourapi/internal/repository"
	"tourapi/internal/storage"
)

// File-part limits, matching the public API contract.
const (
	maxMainImages      = 1
	maxGalleryImages   = 10
	maxHighlightImages = 8
	maxStayImages      = 15
)

// storageNamespace is the root folder for all tour media. The per-tour
// layout underneath it (main/gallery/highlights/stays) must stay stable:
// compensation relies on deleting by this prefix.
const storageNamespace = "tour-packages"

// FileGroups carries the uploaded file parts of one request, one slice per
// named group. Absence of a group is not an error. Highlight and stay files
// are index-aligned with the parsed highlight/stay lists.
type FileGroups struct {
	Main       []media.File
	Gallery    []media.File
	Highlights []media.File
	Stays      []media.File
}

// Empty reports whether the request carried no file parts at all.
func (f FileGroups) Empty() bool {
	return len(f.Main) == 0 && len(f.Gallery) == 0 && len(f.Highlights) == 0 && len(f.Stays) == 0
}

// CreateTourPackageInput is the parsed, validated request body for a create.
// Image slots inside Highlights/Stays arrive as empty placeholders and are
// filled by the upload orchestration.
type CreateTourPackageInput struct {
	PackageName        string
	Price              model.Price
	Duration           model.Duration
	DatesAvailable     []model.DateRange
	MaxGroupSize       int
	Destinations       []string
	Overview           string
	Itinerary          []model.ItineraryDay
	Inclusions         []model.InclusionItem
	Highlights         []model.Highlight
	Stays              []model.Stay
	Categories         []string
	Difficulty         string
	Featured           bool
	Discount           model.Discount
	CancellationPolicy string
	FAQs               []model.FAQ
}

// UpdateTourPackageInput is a partial patch: nil pointers and nil slices
// leave the stored value untouched.
type UpdateTourPackageInput struct {
	PackageName        *string
	Price              *model.Price
	Duration           *model.Duration
	DatesAvailable     []model.DateRange
	MaxGroupSize       *int
	Destinations       []string
	Overview           *string
	Itinerary          []model.ItineraryDay
	Inclusions         []model.InclusionItem
	Highlights         []model.Highlight
	Stays              []model.Stay
	Categories         []string
	Difficulty         *string
	Featured           *bool
	Discount           *model.Discount
	CancellationPolicy *string
	FAQs               []model.FAQ
}

// TourPackageListResult is the service-level DTO for paginated listings.
type TourPackageListResult struct {
	Items []model.TourPackage `json:"data"`
	Total int                 `json:"total"`
}

// TourPackageService defines the tour package use cases.
type TourPackageService interface {
	// Create persists a draft package, drives the concurrent image uploads,
	// and finalizes or compensates. On any upload failure the draft and all
	// uploaded media are removed and an *UploadError is returned.
	Create(ctx context.Context, actor model.Actor, in CreateTourPackageInput, files FileGroups) (*model.TourPackage, error)

	// Get returns a single tour package by ID.
	Get(ctx context.Context, id string) (*model.TourPackage, error)

	// List returns tour packages using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*TourPackageListResult, error)

	// Update applies a field patch and replaces any image slots that come
	// with new files. Replaced objects are only deleted from storage after
	// their successors are uploaded and persisted.
	Update(ctx context.Context, actor model.Actor, id string, in UpdateTourPackageInput, files FileGroups) (*model.TourPackage, error)

	// Delete removes the package's storage folder first and the document
	// second, so a failed cleanup leaves the document intact and retryable.
	Delete(ctx context.Context, actor model.Actor, id string) error
}

// tourPackageService is the concrete implementation of TourPackageService.
type tourPackageService struct {
	store         storage.Storage
	repo          repository.TourPackageRepository
	processor     media.Processor
	uploadTimeout time.Duration
}

// NewTourPackageService constructs a TourPackageService. uploadTimeout
// bounds each individual storage upload; zero disables the bound.
func NewTourPackageService(store storage.Storage, repo repository.TourPackageRepository, processor media.Processor, uploadTimeout time.Duration) TourPackageService {
	return &tourPackageService{
		store:         store,
		repo:          repo,
		processor:     processor,
		uploadTimeout: uploadTimeout,
	}
}

func (s *tourPackageService) Create(ctx context.Context, actor model.Actor, in CreateTourPackageInput, files FileGroups) (*model.TourPackage, error) {
	if in.PackageName == "" {
		return nil, validationErr("packageName is required")
	}
	if err := validateFileCounts(files, in.Highlights, in.Stays); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tp := &model.TourPackage{
		ID:                 uuid.NewString(),
		PackageName:        in.PackageName,
		Slug:               model.Slugify(in.PackageName),
		Price:              in.Price,
		Duration:           in.Duration,
		DatesAvailable:     in.DatesAvailable,
		MaxGroupSize:       in.MaxGroupSize,
		Destinations:       in.Destinations,
		Overview:           in.Overview,
		Itinerary:          in.Itinerary,
		Inclusions:         in.Inclusions,
		Highlights:         in.Highlights,
		Stays:              in.Stays,
		GalleryImages:      []model.ImageRef{},
		SellerID:           actor.ID,
		Categories:         in.Categories,
		Difficulty:         in.Difficulty,
		Featured:           in.Featured,
		Discount:           in.Discount,
		Status:             model.StatusDraft,
		CancellationPolicy: in.CancellationPolicy,
		FAQs:               in.FAQs,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// The draft is persisted first so the upload folder can be derived from
	// a stable identity.
	created, err := s.repo.Create(ctx, tp)
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	return s.finalizeImages(ctx, created, files)
}

// Get returns a tour package by ID.
func (s *tourPackageService) Get(ctx context.Context, id string) (*model.TourPackage, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	tp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tp, nil
}

// List returns paginated tour packages without exposing repository types.
func (s *tourPackageService) List(ctx context.Context, limit, offset int) (*TourPackageListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TourPackageListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *tourPackageService) Update(ctx context.Context, actor model.Actor, id string, in UpdateTourPackageInput, files FileGroups) (*model.TourPackage, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	tp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanModify(tp.SellerID) {
		return nil, ErrForbidden
	}

	applyPatch(tp, in)

	if err := validateFileCounts(files, tp.Highlights, tp.Stays); err != nil {
		return nil, err
	}

	if files.Empty() {
		// Pure field patch, zero uploads.
		tp.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, id, tp)
	}

	return s.replaceImages(ctx, tp, files)
}

func (s *tourPackageService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	tp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if !actor.CanModify(tp.SellerID) {
		return ErrForbidden
	}

	// Storage cleanup comes first: if it fails the document stays put and
	// the whole delete can be retried without losing track of the media.
	if err := s.store.DeleteByPrefix(ctx, tourFolder(id)+"/"); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func validateFileCounts(files FileGroups, highlights []model.Highlight, stays []model.Stay) error {
	if len(files.Main) > maxMainImages {
		return validationErr(fmt.Sprintf("mainImage accepts at most %d file", maxMainImages))
	}
	if len(files.Gallery) > maxGalleryImages {
		return validationErr(fmt.Sprintf("galleryImages accepts at most %d files", maxGalleryImages))
	}
	if len(files.Highlights) > maxHighlightImages {
		return validationErr(fmt.Sprintf("highlightImages accepts at most %d files", maxHighlightImages))
	}
	if len(files.Stays) > maxStayImages {
		return validationErr(fmt.Sprintf("stayImages accepts at most %d files", maxStayImages))
	}
	// Index-aligned groups cannot have more files than slots to land in.
	if len(files.Highlights) > len(highlights) {
		return validationErr("more highlightImages than highlights entries")
	}
	if len(files.Stays) > len(stays) {
		return validationErr("more stayImages than stays entries")
	}
	return nil
}

func applyPatch(tp *model.TourPackage, in UpdateTourPackageInput) {
	if in.PackageName != nil {
		tp.PackageName = *in.PackageName
		tp.Slug = model.Slugify(tp.PackageName)
	}
	if in.Price != nil {
		tp.Price = *in.Price
	}
	if in.Duration != nil {
		tp.Duration = *in.Duration
	}
	if in.DatesAvailable != nil {
		tp.DatesAvailable = in.DatesAvailable
	}
	if in.MaxGroupSize != nil {
		tp.MaxGroupSize = *in.MaxGroupSize
	}
	if in.Destinations != nil {
		tp.Destinations = in.Destinations
	}
	if in.Overview != nil {
		tp.Overview = *in.Overview
	}
	if in.Itinerary != nil {
		tp.Itinerary = in.Itinerary
	}
	if in.Inclusions != nil {
		tp.Inclusions = in.Inclusions
	}
	if in.Highlights != nil {
		tp.Highlights = mergeHighlightImages(in.Highlights, tp.Highlights)
	}
	if in.Stays != nil {
		tp.Stays = mergeStayImages(in.Stays, tp.Stays)
	}
	if in.Categories != nil {
		tp.Categories = in.Categories
	}
	if in.Difficulty != nil {
		tp.Difficulty = *in.Difficulty
	}
	if in.Featured != nil {
		tp.Featured = *in.Featured
	}
	if in.Discount != nil {
		tp.Discount = *in.Discount
	}
	if in.CancellationPolicy != nil {
		tp.CancellationPolicy = *in.CancellationPolicy
	}
	if in.FAQs != nil {
		tp.FAQs = in.FAQs
	}
}

// mergeHighlightImages keeps the stored image for entries the patch did not
// re-illustrate: a text-only highlights patch must not blank image slots.
func mergeHighlightImages(patched, stored []model.Highlight) []model.Highlight {
	for i := range patched {
		if patched[i].Image.IsZero() && i < len(stored) {
			patched[i].Image = stored[i].Image
		}
	}
	return patched
}

func mergeStayImages(patched, stored []model.Stay) []model.Stay {
	for i := range patched {
		if patched[i].Image.IsZero() && i < len(stored) {
			patched[i].Image = stored[i].Image
		}
	}
	return patched
}
