package models

type Child struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	ParentID  string `gorm:"type:char(36);index;not null" json:"parent_id"`
	Parent    Parent `gorm:"foreignKey:ParentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FirstName string `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(255);not null" json:"last_name"`
	// Format YYYY-MM-DD, mengikuti data lama
	DateOfBirth string `gorm:"type:varchar(10);default:'2020-01-01'" json:"date_of_birth"`
	GroupName   string `gorm:"type:varchar(100)" json:"group"`
	// Field sensitif berikut disimpan terenkripsi (AES-CBC) di database
	Allergies        string `gorm:"type:text" json:"allergies,omitempty"`
	EmergencyContact string `gorm:"type:text" json:"emergency_contact,omitempty"`
	MedicalNotes     string `gorm:"type:text" json:"medical_notes,omitempty"`
	PhotoURL         string `gorm:"type:varchar(512)" json:"photo_url"`
	// Soft delete: anak tidak pernah dihapus permanen supaya riwayat
	// kehadiran tetap bisa ditelusuri
	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
