package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tourapi/internal/media"
	"tourapi/internal/model"
	"tourapi/internal/storage"
	"tourapi/internal/upload"
)

// compensationTimeout bounds cleanup work after a failed orchestration.
// Cleanup runs on a fresh context because the request context is usually
// already cancelled by the failure that triggered it.
const compensationTimeout = 30 * time.Second

// tourFolder is the storage folder for one tour package. The group
// subfolders (main/gallery/highlights/stays) hang off this prefix.
func tourFolder(id string) string {
	return storageNamespace + "/" + id
}

// keyTracker records successfully uploaded object keys across concurrent
// subtasks so a failed orchestration can undo exactly what landed.
type keyTracker struct {
	mu   sync.Mutex
	keys []string
}

func (t *keyTracker) add(key string) {
	t.mu.Lock()
	t.keys = append(t.keys, key)
	t.mu.Unlock()
}

func (t *keyTracker) all() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.keys...)
}

// uploadSet is the fan-in of one orchestration run: per-group results
// tagged with their original request index.
type uploadSet struct {
	main       *model.ImageRef
	gallery    []upload.Result[model.ImageRef]
	highlights []upload.Result[model.ImageRef]
	stays      []upload.Result[model.ImageRef]
}

// runUploads fans out every non-empty file group concurrently and waits for
// all of them. Groups never block one another; files within a group upload
// concurrently too. The first failure cancels outstanding work and is
// returned; keys that made it to storage before then are in tracker.
func (s *tourPackageService) runUploads(ctx context.Context, folder string, files FileGroups, tracker *keyTracker) (*uploadSet, error) {
	set := &uploadSet{}
	g, gctx := errgroup.WithContext(ctx)

	if len(files.Main) > 0 {
		g.Go(func() error {
			ref, err := s.uploadOne(gctx, files.Main[0], folder+"/main", tracker)
			if err != nil {
				return err
			}
			set.main = &ref
			return nil
		})
	}
	if len(files.Gallery) > 0 {
		g.Go(func() error {
			results, err := upload.All(gctx, files.Gallery, func(ctx context.Context, _ int, f media.File) (model.ImageRef, error) {
				return s.uploadOne(ctx, f, folder+"/gallery", tracker)
			})
			if err != nil {
				return err
			}
			set.gallery = results
			return nil
		})
	}
	if len(files.Highlights) > 0 {
		g.Go(func() error {
			results, err := upload.All(gctx, files.Highlights, func(ctx context.Context, _ int, f media.File) (model.ImageRef, error) {
				return s.uploadOne(ctx, f, folder+"/highlights", tracker)
			})
			if err != nil {
				return err
			}
			set.highlights = results
			return nil
		})
	}
	if len(files.Stays) > 0 {
		g.Go(func() error {
			results, err := upload.All(gctx, files.Stays, func(ctx context.Context, _ int, f media.File) (model.ImageRef, error) {
				return s.uploadOne(ctx, f, folder+"/stays", tracker)
			})
			if err != nil {
				return err
			}
			set.stays = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// uploadOne processes a single file and streams it to storage under a fresh
// key in folder. Each storage call carries its own timeout so one stalled
// upload cannot hang the whole request.
func (s *tourPackageService) uploadOne(ctx context.Context, f media.File, folder string, tracker *keyTracker) (model.ImageRef, error) {
	blob, err := s.processor.Process(ctx, f)
	if err != nil {
		return model.ImageRef{}, err
	}

	key := folder + "/" + uuid.NewString() + blob.Ext

	putCtx := ctx
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		putCtx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	_, err = s.store.Put(putCtx, key, bytes.NewReader(blob.Data), storage.PutObjectOptions{
		Size:        int64(len(blob.Data)),
		ContentType: blob.ContentType,
		Metadata: map[string]string{
			"original-filename": f.Filename,
		},
	})
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("upload to storage: %w", err)
	}
	if tracker != nil {
		tracker.add(key)
	}
	return model.ImageRef{PublicID: key, URL: s.store.ObjectURL(key)}, nil
}

// finalizeImages drives the create-path orchestration: fan out, map results
// back onto the draft by request index, promote and persist. Any subtask
// failure deletes the draft and everything under its storage prefix.
func (s *tourPackageService) finalizeImages(ctx context.Context, tp *model.TourPackage, files FileGroups) (*model.TourPackage, error) {
	if !files.Empty() {
		set, err := s.runUploads(ctx, tourFolder(tp.ID), files, nil)
		if err != nil {
			s.compensateCreate(tp.ID)
			return nil, &UploadError{Err: err}
		}
		assignUploads(tp, set)
	}

	tp.Status = model.StatusActive
	tp.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, tp.ID, tp)
	if err != nil {
		// The images landed but the document did not; same cleanup applies.
		s.compensateCreate(tp.ID)
		return nil, fmt.Errorf("persist tour package: %w", err)
	}
	return updated, nil
}

// replaceImages drives the update-path orchestration. New images are
// uploaded first; old objects are removed only after the new document is
// persisted, so a failed replacement never leaves a slot with neither image.
func (s *tourPackageService) replaceImages(ctx context.Context, tp *model.TourPackage, files FileGroups) (*model.TourPackage, error) {
	tracker := &keyTracker{}

	set, err := s.runUploads(ctx, tourFolder(tp.ID), files, tracker)
	if err != nil {
		// The prefix still holds the pre-update images, so compensation
		// removes only the keys this run managed to upload.
		s.deleteKeys(tp.ID, tracker.all())
		return nil, &UploadError{Err: err}
	}

	replaced := assignUploads(tp, set)
	tp.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, tp.ID, tp)
	if err != nil {
		s.deleteKeys(tp.ID, tracker.all())
		return nil, fmt.Errorf("persist tour package: %w", err)
	}

	// Replaced objects go away only now that their successors are durable.
	s.deleteKeys(tp.ID, replaced)
	return updated, nil
}

// assignUploads writes upload results into their slots by original request
// index and returns the storage keys of any references they displaced.
func assignUploads(tp *model.TourPackage, set *uploadSet) (replaced []string) {
	if set.main != nil {
		if !tp.MainImage.IsZero() {
			replaced = append(replaced, tp.MainImage.PublicID)
		}
		tp.MainImage = *set.main
	}
	if set.gallery != nil {
		for _, old := range tp.GalleryImages {
			if !old.IsZero() {
				replaced = append(replaced, old.PublicID)
			}
		}
		gallery := make([]model.ImageRef, len(set.gallery))
		for _, r := range set.gallery {
			gallery[r.Index] = r.Value
		}
		tp.GalleryImages = gallery
	}
	for _, r := range set.highlights {
		if old := tp.Highlights[r.Index].Image; !old.IsZero() {
			replaced = append(replaced, old.PublicID)
		}
		tp.Highlights[r.Index].Image = r.Value
	}
	for _, r := range set.stays {
		if old := tp.Stays[r.Index].Image; !old.IsZero() {
			replaced = append(replaced, old.PublicID)
		}
		tp.Stays[r.Index].Image = r.Value
	}
	return replaced
}

// compensateCreate undoes a failed create: drop the draft document and bulk
// delete everything under the tour's storage prefix. A single prefix delete
// covers partial uploads from every subtask, including siblings that
// finished before the failure. Cleanup errors are logged and swallowed; the
// caller reports the original failure.
func (s *tourPackageService) compensateCreate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		logCompensationFailure(id, "delete_document", err)
	}
	if err := s.store.DeleteByPrefix(ctx, tourFolder(id)+"/"); err != nil {
		logCompensationFailure(id, "delete_media_prefix", err)
	}
}

// deleteKeys removes individual objects best-effort. Used for both update
// compensation (newly uploaded keys) and post-persist removal of replaced
// images.
func (s *tourPackageService) deleteKeys(id string, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logCompensationFailure(id, "delete_media_object", err)
		}
	}
}

func logCompensationFailure(id, op string, err error) {
	entry := map[string]any{
		"ts":              time.Now().UTC().Format(time.RFC3339Nano),
		"level":           "error",
		"component":       "tour_package_service",
		"event":           "compensation_failed",
		"tour_package_id": id,
		"op":              op,
		"error":           err.Error(),
	}
	if b, mErr := json.Marshal(entry); mErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
