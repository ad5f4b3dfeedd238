package models

import "time"

// AttendanceRecord adalah model presence: satu baris per interval kehadiran
// seorang anak. CheckOutTime == nil berarti anak masih di dalam venue.
// Invariant: per anak maksimal satu record terbuka per hari (UTC).
type AttendanceRecord struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	ChildID         string     `gorm:"type:char(36);index;not null" json:"child_id"`
	Child           Child      `gorm:"foreignKey:ChildID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"child,omitempty"`
	ParentID        string     `gorm:"type:char(36);index;not null" json:"parent_id"`
	Parent          Parent     `gorm:"foreignKey:ParentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CheckInTime     time.Time  `gorm:"not null;index" json:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time"`
	CheckInNotes    string     `gorm:"type:text" json:"check_in_notes,omitempty"`
	CheckOutNotes   string     `gorm:"type:text" json:"check_out_notes,omitempty"`
	CheckInStaffID  string     `gorm:"type:char(36);not null" json:"check_in_staff_id"`
	CheckInStaff    StaffUser  `gorm:"foreignKey:CheckInStaffID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CheckOutStaffID *string    `gorm:"type:char(36)" json:"check_out_staff_id"`
}
