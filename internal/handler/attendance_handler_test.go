package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emmaus-school/talent-api/internal/config"
	"github.com/emmaus-school/talent-api/internal/handler"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/models"
	"github.com/emmaus-school/talent-api/internal/repository"
	"github.com/emmaus-school/talent-api/internal/router"
	"github.com/emmaus-school/talent-api/internal/service"
	"github.com/emmaus-school/talent-api/pkg/events"
)

func setupApp(t *testing.T, role string) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Teacher{},
		&models.AttendanceRecord{},
		&models.WeeklyActivity{},
		&models.TalentHistory{},
		&models.TeacherTalentHistory{},
		&models.Product{},
		&models.Purchase{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	publisher := events.NewNop()

	engine := ledger.New(db, ledger.Options{}, logger)
	historyRepo := repository.NewHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	attendanceService := service.NewAttendanceService(engine, validate, publisher, logger)
	activityService := service.NewActivityService(engine, validate, publisher, logger)
	talentService := service.NewTalentService(engine, historyRepo, validate, publisher, logger)
	purchaseService := service.NewPurchaseService(engine, productRepo, validate, publisher, logger)
	summaryService := service.NewSummaryService(studentRepo, nil, 0, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, activityService, logger),
		TalentHandler:     handler.NewTalentHandler(talentService, logger),
		PurchaseHandler:   handler.NewPurchaseHandler(purchaseService, logger),
		SummaryHandler:    handler.NewSummaryHandler(summaryService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
			return c.Next()
		},
	})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if target != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, target))
	}
}

func TestAttendanceEndpointFlow(t *testing.T) {
	app, db := setupApp(t, "teacher")

	teacher := models.Teacher{Name: "Ms. Park", Class: "grade-5"}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.Student{Name: "Dana Lee", Class: "grade-5", TeacherName: "Ms. Park"}
	require.NoError(t, db.Create(&student).Error)

	resp := doJSON(t, app, http.MethodPut, "/api/v1/attendance", fiber.Map{
		"student_id": student.ID,
		"date":       "2026-09-06",
		"status":     "present",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ledger.AttendanceResult
	decodeData(t, resp, &result)
	require.Equal(t, 10, result.StudentBalance)
	require.True(t, result.CascadeApplied)

	// Non-Sunday without a holiday entry is rejected up front.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/attendance", fiber.Map{
		"student_id": student.ID,
		"date":       "2026-09-07",
		"status":     "present",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Comment updates carry no ledger effect.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/attendance/%d/comment", result.Record.ID), fiber.Map{
		"comment": "brought a friend",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/attendance/%d", result.Record.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var studentRow models.Student
	require.NoError(t, db.First(&studentRow, student.ID).Error)
	require.Zero(t, studentRow.Talents)
}

func TestActivityEndpointTogglesFlag(t *testing.T) {
	app, db := setupApp(t, "teacher")
	student := models.Student{Name: "Dana Lee", Class: "grade-5"}
	require.NoError(t, db.Create(&student).Error)

	resp := doJSON(t, app, http.MethodPut, "/api/v1/activities", fiber.Map{
		"student_id": student.ID,
		"date":       "2026-09-06",
		"kind":       "recitation",
		"value":      true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ledger.ActivityResult
	decodeData(t, resp, &result)
	require.Equal(t, 10, result.Delta)
	require.True(t, result.Activity.Recitation)

	// Missing value fails validation.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/activities", fiber.Map{
		"student_id": student.ID,
		"date":       "2026-09-06",
		"kind":       "recitation",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMutationRoutesRequireStaffRole(t *testing.T) {
	app, db := setupApp(t, "student")
	student := models.Student{Name: "Dana Lee", Class: "grade-5"}
	require.NoError(t, db.Create(&student).Error)

	resp := doJSON(t, app, http.MethodPut, "/api/v1/attendance", fiber.Map{
		"student_id": student.ID,
		"date":       "2026-09-06",
		"status":     "present",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
