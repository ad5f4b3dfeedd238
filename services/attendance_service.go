package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recentActivityLimit adalah jumlah entri log untuk dashboard live.
const recentActivityLimit = 10

// errHandled menandai rollback transaksi yang hasilnya sudah
// diklasifikasikan ke Result (bukan fault).
var errHandled = errors.New("handled")

type AttendanceService struct {
	DB  *gorm.DB
	Enc *encryption.Encryptor
}

func NewAttendanceService(db *gorm.DB, enc *encryption.Encryptor) *AttendanceService {
	return &AttendanceService{DB: db, Enc: enc}
}

type AttendanceReportRow struct {
	Action       string    `json:"action"`
	TimestampUtc time.Time `json:"timestamp_utc"`
	ChildName    string    `json:"child_name"`
	ParentName   string    `json:"parent_name"`
	GroupName    string    `json:"group"`
}

// Batas hari memakai UTC, konsisten dengan TimestampUtc dan SessionDate.
// Check-in sebelum tengah malam UTC dan check-out sesudahnya memang jatuh
// di dua sesi berbeda.
func utcDayRange(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func sessionDateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func newLogEntry(childID, action, staffID string, now time.Time) models.AttendanceLog {
	return models.AttendanceLog{
		ID:              uuid.New().String(),
		ChildID:         childID,
		Action:          action,
		TimestampUtc:    now,
		HandledByUserID: staffID,
		SessionDate:     sessionDateOf(now),
	}
}

// lockForUpdate menambahkan SELECT ... FOR UPDATE di MySQL supaya dua
// transaksi bersamaan tidak sama-sama lolos pengecekan record terbuka
// di bawah REPEATABLE READ. SQLite tidak mengenal klausa ini dan sudah
// menyerialisasi penulisan lewat database lock.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// openRecordToday mencari record terbuka milik seorang anak pada hari
// berjalan (UTC) di dalam transaksi yang sedang aktif.
func openRecordToday(tx *gorm.DB, childID string, now time.Time) (*models.AttendanceRecord, error) {
	start, end := utcDayRange(now)
	var rec models.AttendanceRecord
	err := lockForUpdate(tx).Where("child_id = ? AND check_out_time IS NULL AND check_in_time >= ? AND check_in_time < ?",
		childID, start, end).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CheckIn membuka record kehadiran baru untuk seorang anak.
// Pengecekan record terbuka dan insert dilakukan dalam satu transaksi
// supaya dua check-in bersamaan tidak menghasilkan dua record terbuka.
func (s *AttendanceService) CheckIn(childID, staffID, notes string) *utils.Result {
	var child models.Child
	if err := s.DB.Where("id = ? AND is_active = ?", childID, true).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Child not found")
		}
		return utils.Fault(err)
	}

	now := time.Now().UTC()
	var record models.AttendanceRecord
	var handled *utils.Result

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		open, err := openRecordToday(tx, childID, now)
		if err != nil {
			return err
		}
		if open != nil {
			handled = utils.Conflict("Child is already checked in")
			return errHandled
		}

		record = models.AttendanceRecord{
			ID:             uuid.New().String(),
			ChildID:        childID,
			ParentID:       child.ParentID,
			CheckInTime:    now,
			CheckInNotes:   notes,
			CheckInStaffID: staffID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		logEntry := newLogEntry(childID, models.ActionCheckIn, staffID, now)
		return tx.Create(&logEntry).Error
	})

	if handled != nil {
		return handled
	}
	if err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Check-in: child=%s record=%s staff=%s", childID, record.ID, staffID)

	return utils.Created(record)
}

// CheckOut menutup satu record berdasarkan id record-nya.
// Checkout kedua pada record yang sama ditolak Conflict dan data
// penutupan pertama tidak berubah.
func (s *AttendanceService) CheckOut(recordID, staffID, notes string) *utils.Result {
	now := time.Now().UTC()
	var record models.AttendanceRecord
	var handled *utils.Result

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ?", recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				handled = utils.NotFound("Attendance record not found")
				return errHandled
			}
			return err
		}

		if record.CheckOutTime != nil {
			handled = utils.Conflict("Child is already checked out")
			return errHandled
		}

		record.CheckOutTime = &now
		record.CheckOutNotes = notes
		record.CheckOutStaffID = &staffID
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		logEntry := newLogEntry(record.ChildID, models.ActionCheckOut, staffID, now)
		return tx.Create(&logEntry).Error
	})

	if handled != nil {
		return handled
	}
	if err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Check-out: record=%s staff=%s", recordID, staffID)

	return utils.Ok(record)
}

// CheckOutByChild menutup record terbuka hari ini milik satu anak.
func (s *AttendanceService) CheckOutByChild(childID, staffID, notes string) *utils.Result {
	now := time.Now().UTC()
	var record models.AttendanceRecord
	var handled *utils.Result

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		open, err := openRecordToday(tx, childID, now)
		if err != nil {
			return err
		}
		if open == nil {
			handled = utils.NotFound("Child is not checked in")
			return errHandled
		}

		open.CheckOutTime = &now
		open.CheckOutNotes = notes
		open.CheckOutStaffID = &staffID
		if err := tx.Save(open).Error; err != nil {
			return err
		}
		record = *open

		logEntry := newLogEntry(childID, models.ActionCheckOut, staffID, now)
		return tx.Create(&logEntry).Error
	})

	if handled != nil {
		return handled
	}
	if err != nil {
		return utils.Fault(err)
	}

	return utils.Ok(record)
}

// CheckOutByParent menutup SEMUA record terbuka hari ini milik satu parent
// sebagai satu batch atomik. Ini kasus umum: satu wali menjemput beberapa
// anak sekaligus.
func (s *AttendanceService) CheckOutByParent(parentID, staffID, notes string) *utils.Result {
	now := time.Now().UTC()
	start, end := utcDayRange(now)
	var closed []models.AttendanceRecord
	var handled *utils.Result

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var open []models.AttendanceRecord
		err := lockForUpdate(tx).Where("parent_id = ? AND check_out_time IS NULL AND check_in_time >= ? AND check_in_time < ?",
			parentID, start, end).Find(&open).Error
		if err != nil {
			return err
		}
		if len(open) == 0 {
			handled = utils.NotFound("No children currently checked in")
			return errHandled
		}

		for i := range open {
			open[i].CheckOutTime = &now
			open[i].CheckOutNotes = notes
			open[i].CheckOutStaffID = &staffID
			if err := tx.Save(&open[i]).Error; err != nil {
				return err
			}

			logEntry := newLogEntry(open[i].ChildID, models.ActionCheckOut, staffID, now)
			if err := tx.Create(&logEntry).Error; err != nil {
				return err
			}
		}

		closed = open
		return nil
	})

	if handled != nil {
		return handled
	}
	if err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Check-out by parent: parent=%s records=%d staff=%s", parentID, len(closed), staffID)

	return utils.Ok(closed)
}

// MarkAttendance mencatat kehadiran massal untuk satu sesi. All-or-nothing:
// bulk CheckIn ditolak utuh kalau salah satu anak sudah punya record
// terbuka hari ini.
func (s *AttendanceService) MarkAttendance(childIDs []string, action, staffID string) *utils.Result {
	if action != models.ActionCheckIn && action != models.ActionCheckOut {
		return utils.Failure("Invalid action. Must be CheckIn or CheckOut")
	}
	if len(childIDs) == 0 {
		return utils.Failure("No children supplied")
	}

	var children []models.Child
	if err := s.DB.Where("id IN ? AND is_active = ?", childIDs, true).Find(&children).Error; err != nil {
		return utils.Fault(err)
	}
	if len(children) != len(childIDs) {
		return utils.NotFound("One or more children not found")
	}

	byID := make(map[string]models.Child, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}

	now := time.Now().UTC()
	var handled *utils.Result

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, childID := range childIDs {
			child := byID[childID]
			open, err := openRecordToday(tx, childID, now)
			if err != nil {
				return err
			}

			switch action {
			case models.ActionCheckIn:
				if open != nil {
					handled = utils.Conflict(fmt.Sprintf("%s %s is already checked in", child.FirstName, child.LastName))
					return errHandled
				}
				record := models.AttendanceRecord{
					ID:             uuid.New().String(),
					ChildID:        childID,
					ParentID:       child.ParentID,
					CheckInTime:    now,
					CheckInStaffID: staffID,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			case models.ActionCheckOut:
				if open != nil {
					open.CheckOutTime = &now
					open.CheckOutStaffID = &staffID
					if err := tx.Save(open).Error; err != nil {
						return err
					}
				}
			}

			logEntry := newLogEntry(childID, action, staffID, now)
			if err := tx.Create(&logEntry).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if handled != nil {
		return handled
	}
	if err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Mark attendance: action=%s children=%d staff=%s", action, len(childIDs), staffID)

	return utils.Ok(map[string]int{"count": len(childIDs)})
}

// GetSessionReport mengembalikan semua entri log untuk satu kunci sesi
// YYYY-MM-DD, urut naik berdasarkan timestamp, diperkaya nama anak,
// nama orang tua, dan label grup.
func (s *AttendanceService) GetSessionReport(date string) *utils.Result {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return utils.Failure("Invalid date. Expected YYYY-MM-DD")
	}

	var logs []models.AttendanceLog
	err := s.DB.Preload("Child").Preload("Child.Parent").
		Where("session_date = ?", date).
		Order("timestamp_utc ASC").
		Find(&logs).Error
	if err != nil {
		return utils.Fault(err)
	}

	return utils.Ok(s.toReportRows(logs))
}

// GetRecentActivity mengembalikan N entri log terbaru lintas sesi,
// terbaru lebih dulu, untuk dashboard live.
func (s *AttendanceService) GetRecentActivity() *utils.Result {
	var logs []models.AttendanceLog
	err := s.DB.Preload("Child").Preload("Child.Parent").
		Order("timestamp_utc DESC").
		Limit(recentActivityLimit).
		Find(&logs).Error
	if err != nil {
		return utils.Fault(err)
	}

	return utils.Ok(s.toReportRows(logs))
}

// GetTodaysAttendance mengembalikan semua record kehadiran hari ini (UTC).
func (s *AttendanceService) GetTodaysAttendance() *utils.Result {
	start, end := utcDayRange(time.Now())
	var records []models.AttendanceRecord
	err := s.DB.Preload("Child").
		Where("check_in_time >= ? AND check_in_time < ?", start, end).
		Order("check_in_time ASC").
		Find(&records).Error
	if err != nil {
		return utils.Fault(err)
	}
	return utils.Ok(s.decryptRecords(records))
}

// GetAttendanceRecords mengembalikan seluruh record, terbaru lebih dulu.
func (s *AttendanceService) GetAttendanceRecords() *utils.Result {
	var records []models.AttendanceRecord
	if err := s.DB.Preload("Child").Order("check_in_time DESC").Find(&records).Error; err != nil {
		return utils.Fault(err)
	}
	return utils.Ok(s.decryptRecords(records))
}

// GetCheckedInChildrenByParent mengembalikan record terbuka hari ini
// milik satu parent.
func (s *AttendanceService) GetCheckedInChildrenByParent(parentID string) *utils.Result {
	start, end := utcDayRange(time.Now())
	var records []models.AttendanceRecord
	err := s.DB.Preload("Child").
		Where("parent_id = ? AND check_out_time IS NULL AND check_in_time >= ? AND check_in_time < ?",
			parentID, start, end).
		Find(&records).Error
	if err != nil {
		return utils.Fault(err)
	}
	return utils.Ok(s.decryptRecords(records))
}

// decryptRecords mendekripsi field sensitif anak yang ikut ter-preload
// sebelum record dikirim keluar.
func (s *AttendanceService) decryptRecords(records []models.AttendanceRecord) []models.AttendanceRecord {
	for i := range records {
		decryptChildFields(s.Enc, &records[i].Child)
	}
	return records
}

func (s *AttendanceService) toReportRows(logs []models.AttendanceLog) []AttendanceReportRow {
	rows := make([]AttendanceReportRow, 0, len(logs))
	for _, entry := range logs {
		rows = append(rows, AttendanceReportRow{
			Action:       entry.Action,
			TimestampUtc: entry.TimestampUtc,
			ChildName:    entry.Child.FirstName + " " + entry.Child.LastName,
			ParentName:   entry.Child.Parent.FirstName + " " + entry.Child.Parent.LastName,
			GroupName:    entry.Child.GroupName,
		})
	}
	return rows
}
