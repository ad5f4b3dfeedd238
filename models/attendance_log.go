package models

import "time"

// Action untuk AttendanceLog
const (
	ActionCheckIn  = "CheckIn"
	ActionCheckOut = "CheckOut"
)

// AttendanceLog adalah audit trail append-only. Baris ditulis dalam
// transaksi yang sama dengan mutasi AttendanceRecord dan tidak pernah
// di-update setelah dibuat.
type AttendanceLog struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	ChildID         string    `gorm:"type:char(36);index;not null" json:"child_id"`
	Child           Child     `gorm:"foreignKey:ChildID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Action          string    `gorm:"type:varchar(10);not null" json:"action"` // CheckIn | CheckOut
	TimestampUtc    time.Time `gorm:"not null;index" json:"timestamp_utc"`
	HandledByUserID string    `gorm:"type:char(36);not null" json:"handled_by_user_id"`
	HandledBy       StaffUser `gorm:"foreignKey:HandledByUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	// Kunci sesi YYYY-MM-DD (UTC), denormalized untuk grouping laporan.
	// Harus dihitung dari clock yang sama dengan TimestampUtc.
	SessionDate string `gorm:"type:varchar(10);index;not null" json:"session_date"`
}
