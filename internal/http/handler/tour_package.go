package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tourapi/internal/http/middleware"
	"tourapi/internal/media"
	"tourapi/internal/model"
	"tourapi/internal/service"
)

// Multipart field names of the tour package form. Structured fields arrive
// as JSON-encoded strings next to the file parts.
const (
	fieldMainImage       = "mainImage"
	fieldGalleryImages   = "galleryImages"
	fieldHighlightImages = "highlightImages"
	fieldStayImages      = "stayImages"
)

// ListTourPackages handles GET /tour-packages with limit & offset.
func ListTourPackages(svc service.TourPackageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return translateTourError(c, err)
		}
		return writeSuccess(c, fiber.StatusOK, res)
	}
}

// GetTourPackage handles GET /tour-packages/:id.
func GetTourPackage(svc service.TourPackageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tp, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return translateTourError(c, err)
		}
		return writeSuccess(c, fiber.StatusOK, tp)
	}
}

// CreateTourPackage handles POST /tour-packages (multipart/form-data).
// Scalar fields come as plain form values, structured fields as JSON strings,
// and images under the four named file groups.
func CreateTourPackage(svc service.TourPackageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.ID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "caller identity is required")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		}

		in, err := parseCreateInput(form)
		if err != nil {
			return writeFail(c, fiber.StatusBadRequest, err.Error())
		}
		files := collectFiles(form)

		tp, err := svc.Create(c.UserContext(), actor, in, files)
		if err != nil {
			return translateTourError(c, err)
		}
		return writeSuccess(c, fiber.StatusCreated, tp)
	}
}

// UpdateTourPackage handles PATCH /tour-packages/:id (multipart/form-data).
// Absent fields leave the stored values untouched; file groups replace the
// corresponding image slots.
func UpdateTourPackage(svc service.TourPackageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.ID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "caller identity is required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		}

		in, err := parseUpdateInput(form)
		if err != nil {
			return writeFail(c, fiber.StatusBadRequest, err.Error())
		}
		files := collectFiles(form)

		tp, err := svc.Update(c.UserContext(), actor, id, in, files)
		if err != nil {
			return translateTourError(c, err)
		}
		return writeSuccess(c, fiber.StatusOK, tp)
	}
}

// DeleteTourPackage handles DELETE /tour-packages/:id.
func DeleteTourPackage(svc service.TourPackageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if actor.ID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "caller identity is required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return translateTourError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func formValue(form *multipart.Form, name string) (string, bool) {
	vs, ok := form.Value[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// decodeJSONField unmarshals a JSON-encoded form field into dst. A missing
// field is not an error; dst keeps its zero value and ok is false.
func decodeJSONField(form *multipart.Form, name string, dst any) (bool, error) {
	raw, ok := formValue(form, name)
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%s must be valid JSON", name)
	}
	return true, nil
}

func parseCreateInput(form *multipart.Form) (service.CreateTourPackageInput, error) {
	var in service.CreateTourPackageInput

	in.PackageName, _ = formValue(form, "packageName")
	in.Overview, _ = formValue(form, "overview")
	in.Difficulty, _ = formValue(form, "difficulty")
	in.CancellationPolicy, _ = formValue(form, "cancellationPolicy")

	if s, ok := formValue(form, "maxGroupSize"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("maxGroupSize must be an integer")
		}
		in.MaxGroupSize = n
	}
	if s, ok := formValue(form, "featured"); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return in, fmt.Errorf("featured must be a boolean")
		}
		in.Featured = b
	}

	if _, err := decodeJSONField(form, "price", &in.Price); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "duration", &in.Duration); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "discount", &in.Discount); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "datesAvailable", &in.DatesAvailable); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "destinations", &in.Destinations); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "itinerary", &in.Itinerary); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "inclusions", &in.Inclusions); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "highlights", &in.Highlights); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "stays", &in.Stays); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "categories", &in.Categories); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "faqs", &in.FAQs); err != nil {
		return in, err
	}
	return in, nil
}

func parseUpdateInput(form *multipart.Form) (service.UpdateTourPackageInput, error) {
	var in service.UpdateTourPackageInput

	if s, ok := formValue(form, "packageName"); ok {
		in.PackageName = &s
	}
	if s, ok := formValue(form, "overview"); ok {
		in.Overview = &s
	}
	if s, ok := formValue(form, "difficulty"); ok {
		in.Difficulty = &s
	}
	if s, ok := formValue(form, "cancellationPolicy"); ok {
		in.CancellationPolicy = &s
	}
	if s, ok := formValue(form, "maxGroupSize"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("maxGroupSize must be an integer")
		}
		in.MaxGroupSize = &n
	}
	if s, ok := formValue(form, "featured"); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return in, fmt.Errorf("featured must be a boolean")
		}
		in.Featured = &b
	}

	var price model.Price
	if ok, err := decodeJSONField(form, "price", &price); err != nil {
		return in, err
	} else if ok {
		in.Price = &price
	}
	var duration model.Duration
	if ok, err := decodeJSONField(form, "duration", &duration); err != nil {
		return in, err
	} else if ok {
		in.Duration = &duration
	}
	var discount model.Discount
	if ok, err := decodeJSONField(form, "discount", &discount); err != nil {
		return in, err
	} else if ok {
		in.Discount = &discount
	}

	if _, err := decodeJSONField(form, "datesAvailable", &in.DatesAvailable); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "destinations", &in.Destinations); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "itinerary", &in.Itinerary); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "inclusions", &in.Inclusions); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "highlights", &in.Highlights); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "stays", &in.Stays); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "categories", &in.Categories); err != nil {
		return in, err
	}
	if _, err := decodeJSONField(form, "faqs", &in.FAQs); err != nil {
		return in, err
	}
	return in, nil
}

func collectFiles(form *multipart.Form) service.FileGroups {
	adapt := func(fhs []*multipart.FileHeader) []media.File {
		if len(fhs) == 0 {
			return nil
		}
		out := make([]media.File, 0, len(fhs))
		for _, fh := range fhs {
			out = append(out, media.FromFileHeader(fh))
		}
		return out
	}
	return service.FileGroups{
		Main:       adapt(form.File[fieldMainImage]),
		Gallery:    adapt(form.File[fieldGalleryImages]),
		Highlights: adapt(form.File[fieldHighlightImages]),
		Stays:      adapt(form.File[fieldStayImages]),
	}
}
