package models

import "time"

type Parent struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(255);not null" json:"last_name"`
	Phone     string `gorm:"type:varchar(50)" json:"phone"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
	// QrSecret adalah satu-satunya faktor verifikasi QR, tidak pernah
	// diturunkan dari ID dan tidak boleh ikut ter-serialize keluar.
	QrSecret  string    `gorm:"type:varchar(64);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Children  []Child   `gorm:"foreignKey:ParentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"children,omitempty"`
}
