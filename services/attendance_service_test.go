package services

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupServiceDB menggunakan SQLite in-memory untuk testing
func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.StaffUser{},
		&models.Parent{},
		&models.Child{},
		&models.AttendanceRecord{},
		&models.AttendanceLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedStaff(t *testing.T, db *gorm.DB) models.StaffUser {
	staff := models.StaffUser{
		ID:           uuid.New().String(),
		FirstName:    "Maria",
		LastName:     "Tan",
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "hashed",
		Role:         "staff",
	}
	assert.NoError(t, db.Create(&staff).Error)
	return staff
}

func seedFamily(t *testing.T, db *gorm.DB, childCount int) (models.Parent, []models.Child) {
	parent := models.Parent{
		ID:        uuid.New().String(),
		FirstName: "Budi",
		LastName:  "Santoso",
		QrSecret:  "c2VlZC1zZWNyZXQtMTIzNDU2",
	}
	assert.NoError(t, db.Create(&parent).Error)

	children := make([]models.Child, 0, childCount)
	for i := 0; i < childCount; i++ {
		child := models.Child{
			ID:        uuid.New().String(),
			ParentID:  parent.ID,
			FirstName: "Anak",
			LastName:  string(rune('A' + i)),
			GroupName: "Kelas Kecil",
			IsActive:  true,
		}
		assert.NoError(t, db.Create(&child).Error)
		children = append(children, child)
	}
	return parent, children
}

func TestCheckInThenDoubleCheckInConflict(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckIn(children[0].ID, staff.ID, "dropped off by dad")
	assert.True(t, res.Success)
	assert.Equal(t, 201, res.StatusCode)

	record := res.Data.(models.AttendanceRecord)
	assert.Nil(t, record.CheckOutTime)
	assert.Equal(t, staff.ID, record.CheckInStaffID)

	// Check-in kedua di hari yang sama harus Conflict
	res = svc.CheckIn(children[0].ID, staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 409, res.StatusCode)

	// Tetap cuma satu record terbuka
	var count int64
	db.Model(&models.AttendanceRecord{}).Where("child_id = ? AND check_out_time IS NULL", children[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCheckInUnknownChild(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckIn(uuid.New().String(), staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 404, res.StatusCode)
}

func TestCheckInInactiveChild(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	assert.NoError(t, db.Model(&children[0]).Update("is_active", false).Error)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckIn(children[0].ID, staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 404, res.StatusCode)
}

func TestCheckOutIsIdempotentSafe(t *testing.T) {
	db := setupServiceDB(t)
	staffA := seedStaff(t, db)
	staffB := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckIn(children[0].ID, staffA.ID, "")
	assert.True(t, res.Success)
	record := res.Data.(models.AttendanceRecord)

	res = svc.CheckOut(record.ID, staffB.ID, "picked up by mom")
	assert.True(t, res.Success)
	closed := res.Data.(models.AttendanceRecord)
	assert.NotNil(t, closed.CheckOutTime)
	assert.Equal(t, "picked up by mom", closed.CheckOutNotes)

	// Checkout kedua ditolak dan data penutupan pertama tidak berubah
	res = svc.CheckOut(record.ID, staffB.ID, "different notes")
	assert.False(t, res.Success)
	assert.Equal(t, 409, res.StatusCode)

	var reloaded models.AttendanceRecord
	assert.NoError(t, db.First(&reloaded, "id = ?", record.ID).Error)
	assert.Equal(t, "picked up by mom", reloaded.CheckOutNotes)
	assert.Equal(t, closed.CheckOutTime.Unix(), reloaded.CheckOutTime.Unix())
}

func TestCheckOutUnknownRecord(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckOut(uuid.New().String(), staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 404, res.StatusCode)
}

func TestCheckOutByParentClosesAllOpenRecords(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	parent, children := seedFamily(t, db, 3)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	// Dua dari tiga anak sedang check-in
	assert.True(t, svc.CheckIn(children[0].ID, staff.ID, "").Success)
	assert.True(t, svc.CheckIn(children[1].ID, staff.ID, "").Success)

	res := svc.CheckOutByParent(parent.ID, staff.ID, "both picked up")
	assert.True(t, res.Success)
	closed := res.Data.([]models.AttendanceRecord)
	assert.Len(t, closed, 2)
	for _, rec := range closed {
		assert.NotNil(t, rec.CheckOutTime)
	}

	// Tidak ada record terbuka tersisa -> NotFound
	res = svc.CheckOutByParent(parent.ID, staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, "No children currently checked in", res.Err)
}

func TestCheckOutByChild(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.CheckOutByChild(children[0].ID, staff.ID, "")
	assert.False(t, res.Success)
	assert.Equal(t, 404, res.StatusCode)

	assert.True(t, svc.CheckIn(children[0].ID, staff.ID, "").Success)

	res = svc.CheckOutByChild(children[0].ID, staff.ID, "early pickup")
	assert.True(t, res.Success)
	closed := res.Data.(models.AttendanceRecord)
	assert.NotNil(t, closed.CheckOutTime)
}

func TestMarkAttendanceValidatesAction(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.MarkAttendance([]string{children[0].ID}, "Arrive", staff.ID)
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
}

func TestMarkAttendanceBulkCheckInIsAllOrNothing(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 2)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	// Anak pertama sudah check-in
	assert.True(t, svc.CheckIn(children[0].ID, staff.ID, "").Success)

	res := svc.MarkAttendance([]string{children[0].ID, children[1].ID}, models.ActionCheckIn, staff.ID)
	assert.False(t, res.Success)
	assert.Equal(t, 409, res.StatusCode)

	// Rollback utuh: anak kedua tidak boleh punya record maupun log
	var recordCount, logCount int64
	db.Model(&models.AttendanceRecord{}).Where("child_id = ?", children[1].ID).Count(&recordCount)
	db.Model(&models.AttendanceLog{}).Where("child_id = ?", children[1].ID).Count(&logCount)
	assert.Equal(t, int64(0), recordCount)
	assert.Equal(t, int64(0), logCount)
}

func TestMarkAttendanceBulkCheckIn(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 3)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	ids := []string{children[0].ID, children[1].ID, children[2].ID}
	res := svc.MarkAttendance(ids, models.ActionCheckIn, staff.ID)
	assert.True(t, res.Success)
	assert.Equal(t, map[string]int{"count": 3}, res.Data)

	var openCount, logCount int64
	db.Model(&models.AttendanceRecord{}).Where("check_out_time IS NULL").Count(&openCount)
	db.Model(&models.AttendanceLog{}).Where("action = ?", models.ActionCheckIn).Count(&logCount)
	assert.Equal(t, int64(3), openCount)
	assert.Equal(t, int64(3), logCount)
}

func TestSessionReportOrdering(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	session := base.Format("2006-01-02")

	// Masukkan dalam urutan acak, laporan harus ascending
	for _, offset := range []time.Duration{2 * time.Hour, 0, 1 * time.Hour} {
		entry := models.AttendanceLog{
			ID:              uuid.New().String(),
			ChildID:         children[0].ID,
			Action:          models.ActionCheckIn,
			TimestampUtc:    base.Add(offset),
			HandledByUserID: staff.ID,
			SessionDate:     session,
		}
		assert.NoError(t, db.Create(&entry).Error)
	}

	res := svc.GetSessionReport(session)
	assert.True(t, res.Success)
	rows := res.Data.([]AttendanceReportRow)
	assert.Len(t, rows, 3)
	assert.True(t, rows[0].TimestampUtc.Before(rows[1].TimestampUtc))
	assert.True(t, rows[1].TimestampUtc.Before(rows[2].TimestampUtc))

	// Baris laporan diperkaya nama anak + orang tua + grup
	assert.Equal(t, "Anak A", rows[0].ChildName)
	assert.Equal(t, "Budi Santoso", rows[0].ParentName)
	assert.Equal(t, "Kelas Kecil", rows[0].GroupName)
}

func TestSessionReportRejectsBadDate(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	res := svc.GetSessionReport("29-08-2026")
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
}

func TestRecentActivityReturnsNewestFirstCapped(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	_, children := seedFamily(t, db, 1)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	base := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		entry := models.AttendanceLog{
			ID:              uuid.New().String(),
			ChildID:         children[0].ID,
			Action:          models.ActionCheckIn,
			TimestampUtc:    base.Add(time.Duration(i) * time.Minute),
			HandledByUserID: staff.ID,
			SessionDate:     base.Format("2006-01-02"),
		}
		assert.NoError(t, db.Create(&entry).Error)
	}

	res := svc.GetRecentActivity()
	assert.True(t, res.Success)
	rows := res.Data.([]AttendanceReportRow)
	assert.Len(t, rows, 10)
	assert.True(t, rows[0].TimestampUtc.After(rows[1].TimestampUtc))
	assert.Equal(t, base.Add(11*time.Minute).Unix(), rows[0].TimestampUtc.Unix())
}

func TestAttendanceQueriesDecryptChildFields(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	enc := encryption.New("test-encryption-key")
	parentSvc := NewParentService(db, enc)
	childSvc := NewChildService(db, enc)

	created := parentSvc.CreateParent("Budi", "Santoso", "", "")
	assert.True(t, created.Success)
	parentID := created.Data.(map[string]string)["parent_id"]

	childRes := childSvc.CreateChild(parentID, CreateChildInput{
		FirstName: "Sinta",
		LastName:  "Santoso",
		Allergies: "kacang",
	})
	assert.True(t, childRes.Success)
	childID := childRes.Data.(map[string]string)["child_id"]

	svc := NewAttendanceService(db, enc)
	assert.True(t, svc.CheckIn(childID, staff.ID, "").Success)

	// Semua jalur list yang membawa Child harus mengembalikan field
	// sensitif dalam bentuk terdekripsi, bukan ciphertext dari database
	today := svc.GetTodaysAttendance()
	assert.True(t, today.Success)
	assert.Equal(t, "kacang", today.Data.([]models.AttendanceRecord)[0].Child.Allergies)

	all := svc.GetAttendanceRecords()
	assert.True(t, all.Success)
	assert.Equal(t, "kacang", all.Data.([]models.AttendanceRecord)[0].Child.Allergies)

	byParent := svc.GetCheckedInChildrenByParent(parentID)
	assert.True(t, byParent.Success)
	assert.Equal(t, "kacang", byParent.Data.([]models.AttendanceRecord)[0].Child.Allergies)
}

func TestCheckedInChildrenByParent(t *testing.T) {
	db := setupServiceDB(t)
	staff := seedStaff(t, db)
	parent, children := seedFamily(t, db, 2)
	svc := NewAttendanceService(db, encryption.New("test-encryption-key"))

	assert.True(t, svc.CheckIn(children[0].ID, staff.ID, "").Success)

	res := svc.GetCheckedInChildrenByParent(parent.ID)
	assert.True(t, res.Success)
	records := res.Data.([]models.AttendanceRecord)
	assert.Len(t, records, 1)
	assert.Equal(t, children[0].ID, records[0].ChildID)
}
