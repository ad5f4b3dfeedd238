package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/utils"
	"gorm.io/gorm"
)

type ChildService struct {
	DB  *gorm.DB
	Enc *encryption.Encryptor
}

func NewChildService(db *gorm.DB, enc *encryption.Encryptor) *ChildService {
	return &ChildService{DB: db, Enc: enc}
}

// decryptChildFields mendekripsi field sensitif saat materialisasi output.
// Semua jalur output yang membawa models.Child harus lewat sini.
func decryptChildFields(enc *encryption.Encryptor, c *models.Child) {
	c.Allergies = enc.DecryptOrRaw(c.Allergies)
	c.EmergencyContact = enc.DecryptOrRaw(c.EmergencyContact)
	c.MedicalNotes = enc.DecryptOrRaw(c.MedicalNotes)
}

type CreateChildInput struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	DateOfBirth      string `json:"date_of_birth"`
	GroupName        string `json:"group"`
	Allergies        string `json:"allergies"`
	EmergencyContact string `json:"emergency_contact"`
	MedicalNotes     string `json:"medical_notes"`
	PhotoURL         string `json:"photo_url"`
}

// CreateChild menambahkan anak ke parent yang sudah ada. Field sensitif
// dienkripsi sebelum disimpan.
func (s *ChildService) CreateChild(parentID string, input CreateChildInput) *utils.Result {
	var count int64
	if err := s.DB.Model(&models.Parent{}).Where("id = ?", parentID).Count(&count).Error; err != nil {
		return utils.Fault(err)
	}
	if count == 0 {
		return utils.NotFound("Parent not found")
	}

	allergies, err := s.Enc.Encrypt(input.Allergies)
	if err != nil {
		return utils.Fault(err)
	}
	emergency, err := s.Enc.Encrypt(input.EmergencyContact)
	if err != nil {
		return utils.Fault(err)
	}
	medical, err := s.Enc.Encrypt(input.MedicalNotes)
	if err != nil {
		return utils.Fault(err)
	}

	child := models.Child{
		ID:               uuid.New().String(),
		ParentID:         parentID,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		DateOfBirth:      input.DateOfBirth,
		GroupName:        input.GroupName,
		Allergies:        allergies,
		EmergencyContact: emergency,
		MedicalNotes:     medical,
		PhotoURL:         input.PhotoURL,
		IsActive:         true,
	}
	if child.DateOfBirth == "" {
		child.DateOfBirth = "2020-01-01"
	}

	if err := s.DB.Create(&child).Error; err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Child created: %s (parent=%s)", child.ID, parentID)

	return utils.Created(map[string]string{"child_id": child.ID})
}

// ListChildren mengembalikan semua anak aktif dengan field sensitif
// yang sudah didekripsi untuk output.
func (s *ChildService) ListChildren() *utils.Result {
	var children []models.Child
	if err := s.DB.Where("is_active = ?", true).Find(&children).Error; err != nil {
		return utils.Fault(err)
	}

	for i := range children {
		decryptChildFields(s.Enc, &children[i])
	}

	return utils.Ok(children)
}

// DeleteChild melakukan soft delete: IsActive jadi false, baris kehadiran
// historis tetap resolvable untuk laporan.
func (s *ChildService) DeleteChild(childID string) *utils.Result {
	var child models.Child
	if err := s.DB.First(&child, "id = ?", childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Child not found")
		}
		return utils.Fault(err)
	}

	if err := s.DB.Model(&child).Update("is_active", false).Error; err != nil {
		return utils.Fault(err)
	}

	return utils.Ok(map[string]string{"child_id": childID})
}
