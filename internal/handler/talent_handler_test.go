package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/models"
)

func TestAdjustEndpointReportsPerStudentOutcome(t *testing.T) {
	app, db := setupApp(t, "admin")

	first := models.Student{Name: "Dana Lee", Class: "grade-5"}
	second := models.Student{Name: "Noah Kim", Class: "grade-5"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/talents/adjust", fiber.Map{
		"student_ids": []uint{first.ID, 999, second.ID},
		"amount":      15,
		"reason":      "memory verse contest",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []dto.AdjustEntryResponse
	decodeData(t, resp, &entries)
	require.Len(t, entries, 3)
	require.Empty(t, entries[0].Error)
	require.NotEmpty(t, entries[1].Error)
	require.Empty(t, entries[2].Error)

	var row models.Student
	require.NoError(t, db.First(&row, second.ID).Error)
	require.Equal(t, 15, row.Talents)
}

func TestGrantEndpointEnforcesWeeklyCap(t *testing.T) {
	app, db := setupApp(t, "teacher")

	teacher := models.Teacher{Name: "Ms. Park", Class: "grade-5", Talents: 100}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.Student{Name: "Dana Lee", Class: "grade-5"}
	require.NoError(t, db.Create(&student).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/talents/grant", fiber.Map{
		"teacher_id": teacher.ID,
		"student_id": student.ID,
		"amount":     6,
		"reason":     "extra effort",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/talents/grant", fiber.Map{
		"teacher_id": teacher.ID,
		"student_id": student.ID,
		"amount":     5,
		"reason":     "extra effort",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/talents/grant/remaining/%d", teacher.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var remaining struct {
		Remaining int `json:"remaining"`
	}
	decodeData(t, resp, &remaining)
	require.Zero(t, remaining.Remaining)

	// Grants from the shared pool leave the teacher's own balance alone.
	var teacherRow models.Teacher
	require.NoError(t, db.First(&teacherRow, teacher.ID).Error)
	require.Equal(t, 100, teacherRow.Talents)
}

func TestGrantEndpointTransferMovesTeacherBalance(t *testing.T) {
	app, db := setupApp(t, "teacher")

	teacher := models.Teacher{Name: "Ms. Park", Class: "grade-5", Talents: 30}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.Student{Name: "Dana Lee", Class: "grade-5"}
	require.NoError(t, db.Create(&student).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/talents/grant", fiber.Map{
		"teacher_id":      teacher.ID,
		"student_id":      student.ID,
		"amount":          20,
		"reason":          "class prize",
		"use_own_balance": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var teacherRow models.Teacher
	require.NoError(t, db.First(&teacherRow, teacher.ID).Error)
	require.Equal(t, 10, teacherRow.Talents)

	var studentRow models.Student
	require.NoError(t, db.First(&studentRow, student.ID).Error)
	require.Equal(t, 20, studentRow.Talents)

	// A second transfer beyond the remaining balance is rejected whole.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/talents/grant", fiber.Map{
		"teacher_id":      teacher.ID,
		"student_id":      student.ID,
		"amount":          20,
		"reason":          "class prize",
		"use_own_balance": true,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHistoryEndpointReturnsNewestFirst(t *testing.T) {
	app, db := setupApp(t, "teacher")

	student := models.Student{Name: "Dana Lee", Class: "grade-5"}
	require.NoError(t, db.Create(&student).Error)

	for _, amount := range []int{5, 7, 9} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/talents/adjust", fiber.Map{
			"student_ids": []uint{student.ID},
			"amount":      amount,
			"reason":      "weekly quiz",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/talents/history/student/%d", student.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history dto.HistoryResponse
	decodeData(t, resp, &history)
	require.Len(t, history.Entries, 3)
	require.Equal(t, 9, history.Entries[0].Amount)
	require.Equal(t, 5, history.Entries[2].Amount)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/talents/history/teacher/999", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/talents/history/guardian/%d", student.ID), nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPurchaseEndpointFlow(t *testing.T) {
	app, db := setupApp(t, "teacher")

	student := models.Student{Name: "Dana Lee", Class: "grade-5", Talents: 50}
	require.NoError(t, db.Create(&student).Error)
	product := models.Product{Name: "Sticker pack", Price: 20, Stock: 3, IsAvailable: true}
	require.NoError(t, db.Create(&product).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products?available=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var products []dto.ProductResponse
	decodeData(t, resp, &products)
	require.Len(t, products, 1)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/purchases", fiber.Map{
		"student_id": student.ID,
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result dto.PurchaseResponse
	decodeData(t, resp, &result)
	require.Equal(t, 10, result.RemainingBalance)
	require.Equal(t, 1, result.RemainingStock)
	require.Equal(t, 40, result.TotalPrice)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/purchases", fiber.Map{
		"student_id": student.ID,
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestClassSummaryEndpoint(t *testing.T) {
	app, db := setupApp(t, "teacher")

	require.NoError(t, db.Create(&models.Student{Name: "Dana Lee", Class: "grade-5", Talents: 40}).Error)
	require.NoError(t, db.Create(&models.Student{Name: "Noah Kim", Class: "grade-5", Talents: 10}).Error)
	require.NoError(t, db.Create(&models.Student{Name: "Ira Cho", Class: "grade-6", Talents: 99}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/summary/class/grade-5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary dto.ClassSummaryResponse
	decodeData(t, resp, &summary)
	require.Len(t, summary.Students, 2)
	require.Equal(t, 50, summary.TotalTalents)
}
