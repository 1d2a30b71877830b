package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourapi/internal/http/middleware"
	"tourapi/internal/model"
	"tourapi/internal/service"
	serviceMocks "tourapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	req.Header.Set(middleware.UserIDHeader, "seller-1")
	req.Header.Set(middleware.UserRoleHeader, model.RoleSeller)
	return req
}

func decodeStatus(t *testing.T, resp *http.Response) statusPayload {
	t.Helper()
	var body statusPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListTourPackages(t *testing.T) {
	mockSvc := new(serviceMocks.MockTourPackageService)
	app := fiber.New()
	app.Get("/tour-packages", ListTourPackages(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.TourPackageListResult{
			Items: []model.TourPackage{{ID: uuid.New().String(), PackageName: "Ladakh Explorer"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tour-packages?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeStatus(t, resp)
		assert.Equal(t, "success", body.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tour-packages?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/tour-packages", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetTourPackage(t *testing.T) {
	mockSvc := new(serviceMocks.MockTourPackageService)
	app := fiber.New()
	app.Get("/tour-packages/:id", GetTourPackage(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(&model.TourPackage{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tour-packages/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeStatus(t, resp)
		assert.Equal(t, "success", body.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/tour-packages/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeStatus(t, resp)
		assert.Equal(t, "fail", body.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tour-packages/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_ID", body.Error.Code)
	})
}

func TestCreateTourPackage(t *testing.T) {
	newApp := func(svc service.TourPackageService) *fiber.App {
		app := fiber.New()
		app.Use(middleware.Actor())
		app.Post("/tour-packages", CreateTourPackage(svc))
		return app
	}

	buildForm := func(t *testing.T) (*bytes.Buffer, string) {
		t.Helper()
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		require.NoError(t, w.WriteField("packageName", "Ladakh Explorer"))
		require.NoError(t, w.WriteField("price", `{"basePrice":1500}`))
		require.NoError(t, w.WriteField("duration", `{"days":7,"nights":6}`))
		require.NoError(t, w.WriteField("highlights", `[{"name":"Pangong"},{"name":"Nubra"}]`))
		part, err := w.CreateFormFile("mainImage", "main.png")
		require.NoError(t, err)
		part.Write([]byte("png-bytes"))
		hPart, err := w.CreateFormFile("highlightImages", "h0.png")
		require.NoError(t, err)
		hPart.Write([]byte("png-bytes"))
		require.NoError(t, w.Close())
		return body, w.FormDataContentType()
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)

		created := &model.TourPackage{ID: uuid.New().String(), PackageName: "Ladakh Explorer", Status: model.StatusActive}
		mockSvc.On("Create", mock.Anything,
			model.Actor{ID: "seller-1", Role: model.RoleSeller},
			mock.MatchedBy(func(in service.CreateTourPackageInput) bool {
				return in.PackageName == "Ladakh Explorer" &&
					in.Price.BasePrice == 1500 &&
					in.Duration.Days == 7 &&
					len(in.Highlights) == 2
			}),
			mock.MatchedBy(func(files service.FileGroups) bool {
				return len(files.Main) == 1 && len(files.Highlights) == 1 && len(files.Gallery) == 0
			}),
		).Return(created, nil).Once()

		body, contentType := buildForm(t)
		req := authedRequest(http.MethodPost, "/tour-packages", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		payload := decodeStatus(t, resp)
		assert.Equal(t, "success", payload.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing identity headers", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)

		body, contentType := buildForm(t)
		req := httptest.NewRequest(http.MethodPost, "/tour-packages", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json field", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		w.WriteField("packageName", "X")
		w.WriteField("price", `{not json`)
		w.Close()

		req := authedRequest(http.MethodPost, "/tour-packages", body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		payload := decodeStatus(t, resp)
		assert.Equal(t, "fail", payload.Status)
		assert.Contains(t, payload.Message, "price")
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure surfaces as fail envelope", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)

		mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &service.UploadError{Err: errors.New("provider unavailable")}).Once()

		body, contentType := buildForm(t)
		req := authedRequest(http.MethodPost, "/tour-packages", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		payload := decodeStatus(t, resp)
		assert.Equal(t, "fail", payload.Status)
		assert.Contains(t, payload.Message, "failed to upload images")
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateTourPackage(t *testing.T) {
	newApp := func(svc service.TourPackageService) *fiber.App {
		app := fiber.New()
		app.Use(middleware.Actor())
		app.Patch("/tour-packages/:id", UpdateTourPackage(svc))
		return app
	}

	t.Run("success with partial fields", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("Update", mock.Anything,
			model.Actor{ID: "seller-1", Role: model.RoleSeller}, id,
			mock.MatchedBy(func(in service.UpdateTourPackageInput) bool {
				return in.PackageName != nil && *in.PackageName == "Renamed" &&
					in.Overview == nil && in.Price == nil
			}),
			mock.Anything,
		).Return(&model.TourPackage{ID: id, PackageName: "Renamed"}, nil).Once()

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		w.WriteField("packageName", "Renamed")
		w.Close()

		req := authedRequest(http.MethodPatch, "/tour-packages/"+id, body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("Update", mock.Anything, mock.Anything, id, mock.Anything, mock.Anything).
			Return(nil, service.ErrForbidden).Once()

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		w.WriteField("packageName", "Renamed")
		w.Close()

		req := authedRequest(http.MethodPatch, "/tour-packages/"+id, body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		payload := decodeStatus(t, resp)
		assert.Equal(t, "fail", payload.Status)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		w.WriteField("packageName", "X")
		w.Close()

		req := authedRequest(http.MethodPatch, "/tour-packages/not-a-uuid", body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteTourPackage(t *testing.T) {
	newApp := func(svc service.TourPackageService) *fiber.App {
		app := fiber.New()
		app.Use(middleware.Actor())
		app.Delete("/tour-packages/:id", DeleteTourPackage(svc))
		return app
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("Delete", mock.Anything, model.Actor{ID: "seller-1", Role: model.RoleSeller}, id).
			Return(nil).Once()

		resp, _ := app.Test(authedRequest(http.MethodDelete, "/tour-packages/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("Delete", mock.Anything, mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(authedRequest(http.MethodDelete, "/tour-packages/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("cleanup failure is an internal error", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTourPackageService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("Delete", mock.Anything, mock.Anything, id).
			Return(errors.New("delete storage: listing failed")).Once()

		resp, _ := app.Test(authedRequest(http.MethodDelete, "/tour-packages/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCreateUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/users", CreateUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.User{ID: uuid.New().String(), Name: "Asha", Email: "asha@example.com"}
		mockSvc.On("Create", mock.Anything, service.CreateUserInput{Name: "Asha", Email: "asha@example.com"}).
			Return(expected, nil).Once()

		body := bytes.NewBufferString(`{"name":"Asha","email":"asha@example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Reason: "a valid email is required"}).Once()

		body := bytes.NewBufferString(`{"name":"Asha","email":"nope"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Get("/users/:id", GetUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(&model.User{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/users/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrUserNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/users/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	tourSvc := new(serviceMocks.MockTourPackageService)
	userSvc := new(serviceMocks.MockUserService)
	RegisterRoutes(app, nil, tourSvc, userSvc)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
	})
}
