package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emmaus-school/talent-api/internal/models"
)

// Options tunes the ledger rules. Zero values fall back to the production
// defaults (10 talents per attendance/activity step, fixed 10 teacher
// cascade, weekly grant cap of 5).
type Options struct {
	AttendanceStep int
	CascadeStep    int
	WeeklyGrantCap int
	Holidays       []string
}

func (o Options) withDefaults() Options {
	if o.AttendanceStep <= 0 {
		o.AttendanceStep = 10
	}
	if o.CascadeStep <= 0 {
		o.CascadeStep = 10
	}
	if o.WeeklyGrantCap <= 0 {
		o.WeeklyGrantCap = 5
	}
	return o
}

// Engine is the single write path for talent balances. Every mutation runs
// read-compute-write inside one transaction and appends a history row next to
// the balance update, so the balance column never drifts from the history log.
type Engine struct {
	db     *gorm.DB
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a ledger engine bound to the given database handle.
func New(db *gorm.DB, opts Options, logger zerolog.Logger) *Engine {
	return &Engine{
		db:     db,
		opts:   opts.withDefaults(),
		logger: logger.With().Str("component", "ledger_engine").Logger(),
		now:    time.Now,
	}
}

// AttendanceResult reports the outcome of an attendance status write.
type AttendanceResult struct {
	Record         models.AttendanceRecord `json:"record"`
	StudentDelta   int                     `json:"student_delta"`
	StudentBalance int                     `json:"student_balance"`
	TeacherDelta   int                     `json:"teacher_delta"`
	CascadeApplied bool                    `json:"cascade_applied"`
}

// ActivityResult reports the outcome of an activity flag toggle.
type ActivityResult struct {
	Activity models.WeeklyActivity `json:"activity"`
	Delta    int                   `json:"delta"`
	Balance  int                   `json:"balance"`
}

// AdjustResult is the per-student outcome of a bulk adjustment.
type AdjustResult struct {
	StudentID uint
	Before    int
	After     int
	Err       error
}

// GrantResult reports a manual grant or a balance-funded transfer.
type GrantResult struct {
	Transfer      bool `json:"transfer"`
	StudentBefore int  `json:"student_before"`
	StudentAfter  int  `json:"student_after"`
	TeacherBefore int  `json:"teacher_before"`
	TeacherAfter  int  `json:"teacher_after"`
}

// PurchaseResult reports a completed store purchase.
type PurchaseResult struct {
	Purchase         models.Purchase `json:"purchase"`
	RemainingBalance int             `json:"remaining_balance"`
	RemainingStock   int             `json:"remaining_stock"`
}

// SetAttendance writes the attendance status for (studentID, date) and
// applies the resulting talent deltas: the student side per the transition
// table, plus a fixed-magnitude teacher cascade when the student delta is
// nonzero. The teacher is resolved by the student's denormalized teacher
// name; no match skips the cascade without failing the operation.
func (e *Engine) SetAttendance(ctx context.Context, studentID uint, date time.Time, status models.AttendanceStatus) (AttendanceResult, error) {
	if !status.Valid() {
		return AttendanceResult{}, ErrInvalidStatus
	}
	if !IsAttendanceDay(date, e.opts.Holidays) {
		return AttendanceResult{}, ErrInvalidDate
	}

	var result AttendanceResult
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		student, err := e.lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		var record models.AttendanceRecord
		old := statusUnset
		found := true
		if err := tx.Where("student_id = ? AND date = ?", studentID, datatypes.Date(date)).First(&record).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found = false
		} else {
			old = toStatusOrUnset(record.Status)
		}

		delta := attendanceDelta(old, status, e.opts.AttendanceStep)

		if found {
			if record.Status != status {
				record.Status = status
				if err := tx.Model(&models.AttendanceRecord{}).Where("id = ?", record.ID).Update("status", status).Error; err != nil {
					return err
				}
			}
		} else {
			record = models.AttendanceRecord{
				StudentID: studentID,
				Date:      datatypes.Date(date),
				Status:    status,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		result = AttendanceResult{Record: record, StudentBalance: student.Talents}
		if delta == 0 {
			return nil
		}

		reason := fmt.Sprintf("attendance %s: %s", date.Format("2006-01-02"), status)
		if _, err := applyStudentChange(tx, &student, delta, reason, models.HistoryAttendance, nil, &record.ID); err != nil {
			return err
		}
		result.StudentDelta = delta
		result.StudentBalance = student.Talents

		cascade := cascadeDelta(delta, e.opts.CascadeStep)
		teacher, err := e.lockTeacherByName(tx, student.TeacherName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				e.logger.Debug().
					Uint("student_id", studentID).
					Str("teacher_name", student.TeacherName).
					Msg("no matching teacher, cascade skipped")
				return nil
			}
			return err
		}

		if err := applyTeacherChange(tx, &teacher, cascade, reason, models.HistoryAttendance); err != nil {
			return err
		}
		result.TeacherDelta = cascade
		result.CascadeApplied = true
		return nil
	})
	if err != nil {
		return AttendanceResult{}, err
	}
	return result, nil
}

// DeleteAttendance removes an attendance record and reverses whatever the
// record's own history rows net out to, through a history row of type delete.
// A record that never moved the balance nets zero and only the row is
// removed. The teacher cascade from the original write is left in place.
func (e *Engine) DeleteAttendance(ctx context.Context, recordID uint) error {
	return e.runTx(ctx, func(tx *gorm.DB) error {
		var record models.AttendanceRecord
		if err := tx.First(&record, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return err
		}

		var net int64
		if err := tx.Model(&models.TalentHistory{}).
			Where("attendance_record_id = ?", record.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&net).Error; err != nil {
			return err
		}

		if net != 0 {
			student, err := e.lockStudent(tx, record.StudentID)
			if err != nil {
				return err
			}
			reason := fmt.Sprintf("attendance %s deleted", time.Time(record.Date).Format("2006-01-02"))
			if _, err := applyStudentChange(tx, &student, -int(net), reason, models.HistoryDelete, nil, &record.ID); err != nil {
				return err
			}
		}

		return tx.Delete(&models.AttendanceRecord{}, record.ID).Error
	})
}

// SetAttendanceComment updates the free-text comment on a record. Comments
// never touch the ledger.
func (e *Engine) SetAttendanceComment(ctx context.Context, recordID uint, comment string) error {
	update := e.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ?", recordID).
		Update("comment", comment)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

// ToggleActivity sets one of the four weekly activity flags to the desired
// value, crediting +step on false→true and reversing with -step on
// true→false. Setting a flag to its current value is a no-op. There is no
// teacher cascade on activities.
func (e *Engine) ToggleActivity(ctx context.Context, studentID uint, date time.Time, kind models.ActivityKind, desired bool) (ActivityResult, error) {
	if !kind.Valid() {
		return ActivityResult{}, ErrInvalidActivity
	}

	var result ActivityResult
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		student, err := e.lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		var activity models.WeeklyActivity
		if err := tx.Where("student_id = ? AND date = ?", studentID, datatypes.Date(date)).First(&activity).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			activity = models.WeeklyActivity{StudentID: studentID, Date: datatypes.Date(date)}
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}

		delta := activityDelta(activity.Flag(kind), desired, e.opts.AttendanceStep)
		result = ActivityResult{Activity: activity, Balance: student.Talents}
		if delta == 0 {
			return nil
		}

		activity.SetFlag(kind, desired)
		if err := tx.Model(&models.WeeklyActivity{}).Where("id = ?", activity.ID).Update(string(kind), desired).Error; err != nil {
			return err
		}

		reason := fmt.Sprintf("%s %s: %s", kind, date.Format("2006-01-02"), checkedLabel(desired))
		if _, err := applyStudentChange(tx, &student, delta, reason, models.HistoryActivity, nil, nil); err != nil {
			return err
		}

		result.Activity = activity
		result.Delta = delta
		result.Balance = student.Talents
		return nil
	})
	if err != nil {
		return ActivityResult{}, err
	}
	return result, nil
}

// AdjustTalents applies the same signed amount to each target student as
// independent transactions. One student failing does not roll back the
// others; callers get a per-student outcome list in input order.
func (e *Engine) AdjustTalents(ctx context.Context, studentIDs []uint, amount int, reason string, byTeacherID *uint) []AdjustResult {
	results := make([]AdjustResult, 0, len(studentIDs))
	for _, id := range studentIDs {
		result := AdjustResult{StudentID: id}
		result.Err = e.runTx(ctx, func(tx *gorm.DB) error {
			student, err := e.lockStudent(tx, id)
			if err != nil {
				return err
			}
			result.Before = student.Talents
			if _, err := applyStudentChange(tx, &student, amount, reason, models.HistoryManual, byTeacherID, nil); err != nil {
				return err
			}
			result.After = student.Talents
			return nil
		})
		if result.Err != nil {
			e.logger.Warn().Err(result.Err).Uint("student_id", id).Msg("bulk adjustment entry failed")
		}
		results = append(results, result)
	}
	return results
}

// Grant credits (or debits) a student on a teacher's behalf without touching
// the teacher's balance. Positive grants count against the teacher's weekly
// cap; the teacher row is locked before the current-week sum is recomputed
// from history, so two concurrent grants by the same teacher serialize on
// that lock and cannot both pass the check. Negative amounts are deductions
// and bypass the cap.
func (e *Engine) Grant(ctx context.Context, teacherID, studentID uint, amount int, reason string) (GrantResult, error) {
	var result GrantResult
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		if _, err := e.lockTeacher(tx, teacherID); err != nil {
			return err
		}

		if amount > 0 {
			granted, err := e.weekGrantTotal(tx, teacherID)
			if err != nil {
				return err
			}
			if granted+amount > e.opts.WeeklyGrantCap {
				return ErrCapExceeded
			}
		}

		student, err := e.lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		result.StudentBefore = student.Talents
		if _, err := applyStudentChange(tx, &student, amount, reason, models.HistoryManual, &teacherID, nil); err != nil {
			return err
		}
		result.StudentAfter = student.Talents
		return nil
	})
	if err != nil {
		return GrantResult{}, err
	}
	return result, nil
}

// Transfer moves amount from the teacher's own balance to the student:
// both sides commit or neither does. The amount must be positive and covered
// by the teacher's current balance.
func (e *Engine) Transfer(ctx context.Context, teacherID, studentID uint, amount int, reason string) (GrantResult, error) {
	if amount <= 0 {
		return GrantResult{}, ErrInvalidAmount
	}

	result := GrantResult{Transfer: true}
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		teacher, err := e.lockTeacher(tx, teacherID)
		if err != nil {
			return err
		}
		if teacher.Talents < amount {
			return ErrInsufficientTeacherBalance
		}

		student, err := e.lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		result.TeacherBefore = teacher.Talents
		result.StudentBefore = student.Talents

		if err := applyTeacherChange(tx, &teacher, -amount, reason, models.HistoryTransfer); err != nil {
			return err
		}
		if _, err := applyStudentChange(tx, &student, amount, reason, models.HistoryTransfer, &teacherID, nil); err != nil {
			return err
		}

		result.TeacherAfter = teacher.Talents
		result.StudentAfter = student.Talents
		return nil
	})
	if err != nil {
		return GrantResult{}, err
	}
	return result, nil
}

// Purchase validates stock and balance, then decrements both, appends the
// student history row and records the purchase request as one atomic unit.
func (e *Engine) Purchase(ctx context.Context, studentID, productID uint, quantity int, requirements string) (PurchaseResult, error) {
	if quantity < 1 {
		return PurchaseResult{}, ErrInvalidQuantity
	}

	var result PurchaseResult
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		var product models.Product
		if err := e.lock(tx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !product.IsAvailable {
			return ErrProductUnavailable
		}
		if product.Stock < quantity {
			return ErrInsufficientStock
		}

		student, err := e.lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		total := quantity * product.Price
		if student.Talents < total {
			return ErrInsufficientBalance
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", quantity)).Error; err != nil {
			return err
		}

		reason := fmt.Sprintf("purchase %s x%d", product.Name, quantity)
		if _, err := applyStudentChange(tx, &student, -total, reason, models.HistoryPurchase, nil, nil); err != nil {
			return err
		}

		purchase := models.Purchase{
			StudentID:    studentID,
			ProductID:    productID,
			Quantity:     quantity,
			TotalPrice:   total,
			Requirements: requirements,
			Status:       models.PurchaseStatusRequested,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		result = PurchaseResult{
			Purchase:         purchase,
			RemainingBalance: student.Talents,
			RemainingStock:   product.Stock - quantity,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return result, nil
}

// WeekGrantRemaining returns how much of the weekly cap the teacher has left
// for positive manual grants, recomputed from history.
func (e *Engine) WeekGrantRemaining(ctx context.Context, teacherID uint) (int, error) {
	granted, err := e.weekGrantTotal(e.db.WithContext(ctx), teacherID)
	if err != nil {
		return 0, err
	}
	remaining := e.opts.WeeklyGrantCap - granted
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (e *Engine) weekGrantTotal(tx *gorm.DB, teacherID uint) (int, error) {
	start, end := WeekWindow(e.now())
	var total int64
	err := tx.Model(&models.TalentHistory{}).
		Where("created_by_teacher_id = ?", teacherID).
		Where("type = ?", models.HistoryManual).
		Where("amount > 0").
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func applyStudentChange(tx *gorm.DB, student *models.Student, amount int, reason string, typ models.HistoryType, byTeacherID, recordID *uint) (models.TalentHistory, error) {
	entry := models.TalentHistory{
		StudentID:          student.ID,
		Amount:             amount,
		BeforeBalance:      student.Talents,
		AfterBalance:       student.Talents + amount,
		Reason:             reason,
		Type:               typ,
		CreatedByTeacherID: byTeacherID,
		AttendanceRecordID: recordID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return models.TalentHistory{}, err
	}

	student.Talents += amount
	if err := tx.Model(&models.Student{}).Where("id = ?", student.ID).Update("talents", student.Talents).Error; err != nil {
		return models.TalentHistory{}, err
	}
	return entry, nil
}

func applyTeacherChange(tx *gorm.DB, teacher *models.Teacher, amount int, reason string, typ models.HistoryType) error {
	entry := models.TeacherTalentHistory{
		TeacherID:     teacher.ID,
		Amount:        amount,
		BeforeBalance: teacher.Talents,
		AfterBalance:  teacher.Talents + amount,
		Reason:        reason,
		Type:          typ,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	teacher.Talents += amount
	return tx.Model(&models.Teacher{}).Where("id = ?", teacher.ID).Update("talents", teacher.Talents).Error
}

func (e *Engine) lockStudent(tx *gorm.DB, id uint) (models.Student, error) {
	var student models.Student
	if err := e.lock(tx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (e *Engine) lockTeacher(tx *gorm.DB, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := e.lock(tx).First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (e *Engine) lockTeacherByName(tx *gorm.DB, name string) (models.Teacher, error) {
	var teacher models.Teacher
	err := e.lock(tx).Where("name = ?", name).First(&teacher).Error
	return teacher, err
}

// lock adds a FOR UPDATE clause on dialects that support row locks. SQLite
// serializes the write transaction itself.
func (e *Engine) lock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// runTx executes fn inside a transaction and retries once when the commit
// fails on a transient conflict.
func (e *Engine) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := e.db.WithContext(ctx).Transaction(fn)
	if err != nil && isTransientConflict(err) {
		e.logger.Warn().Err(err).Msg("transaction conflict, retrying once")
		err = e.db.WithContext(ctx).Transaction(fn)
	}
	return err
}

func isTransientConflict(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "deadlock") ||
		strings.Contains(message, "could not serialize") ||
		strings.Contains(message, "database is locked") ||
		strings.Contains(message, "database table is locked")
}

func checkedLabel(checked bool) string {
	if checked {
		return "checked"
	}
	return "unchecked"
}
