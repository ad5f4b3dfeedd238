package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/qr"
	"github.com/yeremiapane/childcheck-app/utils"
	"gorm.io/gorm"
)

type ParentService struct {
	DB  *gorm.DB
	Enc *encryption.Encryptor
}

func NewParentService(db *gorm.DB, enc *encryption.Encryptor) *ParentService {
	return &ParentService{DB: db, Enc: enc}
}

type ParentInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChildInfo struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	GroupName        string `json:"group"`
	Allergies        string `json:"allergies,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}

type ScanResult struct {
	Parent   ParentInfo  `json:"parent"`
	Children []ChildInfo `json:"children"`
}

// CreateParent membuat Parent baru sekaligus menerbitkan QR secret:
// 16 byte random (base64), tidak pernah diturunkan dari ID dan tidak
// pernah di-regenerate tanpa jalur reissue eksplisit.
func (s *ParentService) CreateParent(firstName, lastName, phone, email string) *utils.Result {
	secretBytes := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, secretBytes); err != nil {
		return utils.Fault(err)
	}

	parent := models.Parent{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     email,
		QrSecret:  base64.StdEncoding.EncodeToString(secretBytes),
	}

	if err := s.DB.Create(&parent).Error; err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Parent created: %s", parent.ID)

	return utils.Created(map[string]string{"parent_id": parent.ID})
}

// ListParents mengembalikan semua parent beserta anak aktifnya.
// Field sensitif anak didekripsi saat materialisasi output.
func (s *ParentService) ListParents() *utils.Result {
	var parents []models.Parent
	if err := s.DB.Preload("Children", "is_active = ?", true).Find(&parents).Error; err != nil {
		return utils.Fault(err)
	}
	for i := range parents {
		for j := range parents[i].Children {
			decryptChildFields(s.Enc, &parents[i].Children[j])
		}
	}
	return utils.Ok(parents)
}

// GenerateQrCode merender payload QR milik parent sebagai PNG.
func (s *ParentService) GenerateQrCode(parentID string) *utils.Result {
	parent, res := s.findParent(parentID)
	if res != nil {
		return res
	}

	png, err := qr.RenderPNG(qr.BuildPayload(parent.ID, parent.QrSecret))
	if err != nil {
		return utils.Fault(err)
	}

	return utils.Ok(png)
}

// GetQrData mengembalikan payload mentah untuk klien yang merender
// barcode-nya sendiri.
func (s *ParentService) GetQrData(parentID string) *utils.Result {
	parent, res := s.findParent(parentID)
	if res != nil {
		return res
	}
	return utils.Ok(qr.BuildPayload(parent.ID, parent.QrSecret))
}

// ScanQrCode memverifikasi payload hasil scan. Parent tidak ditemukan dan
// secret tidak cocok sengaja menghasilkan pesan generik yang sama supaya
// tidak jadi oracle enumerasi.
func (s *ParentService) ScanQrCode(payload qr.Payload) *utils.Result {
	var parent models.Parent
	err := s.DB.Preload("Children", "is_active = ?", true).
		Where("id = ?", string(payload.Family)).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Failure("Invalid QR code")
		}
		return utils.Fault(err)
	}

	if !qr.VerifySecret(parent.QrSecret, payload.Secret) {
		return utils.Failure("Invalid QR code")
	}

	children := make([]ChildInfo, 0, len(parent.Children))
	for _, c := range parent.Children {
		children = append(children, ChildInfo{
			ID:               c.ID,
			FirstName:        c.FirstName,
			LastName:         c.LastName,
			GroupName:        c.GroupName,
			Allergies:        s.Enc.DecryptOrRaw(c.Allergies),
			EmergencyContact: s.Enc.DecryptOrRaw(c.EmergencyContact),
		})
	}

	return utils.Ok(ScanResult{
		Parent: ParentInfo{
			ID:        parent.ID,
			FirstName: parent.FirstName,
			LastName:  parent.LastName,
		},
		Children: children,
	})
}

func (s *ParentService) findParent(parentID string) (*models.Parent, *utils.Result) {
	var parent models.Parent
	if err := s.DB.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Parent not found")
		}
		return nil, utils.Fault(err)
	}
	return &parent, nil
}
