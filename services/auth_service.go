package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/childcheck-app/cache"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB        *gorm.DB
	Blacklist cache.TokenBlacklist
}

func NewAuthService(db *gorm.DB, blacklist cache.TokenBlacklist) *AuthService {
	return &AuthService{DB: db, Blacklist: blacklist}
}

type LoginResponse struct {
	Token string    `json:"token"`
	Staff StaffInfo `json:"staff"`
}

type StaffInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// Login memverifikasi email+password dan menerbitkan bearer token.
// Pesan error sengaja sama untuk email tak dikenal dan password salah.
func (s *AuthService) Login(email, password string) *utils.Result {
	var user models.StaffUser
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized("Invalid email or password")
		}
		return utils.Fault(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return utils.Unauthorized("Invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("Login successful for staff: %s (role=%s)", user.Email, user.Role)

	return utils.Ok(LoginResponse{
		Token: token,
		Staff: StaffInfo{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Role:      strings.ToLower(user.Role),
			IsActive:  true,
		},
	})
}

// RegisterStaff membuat StaffUser baru. Email harus unik.
func (s *AuthService) RegisterStaff(firstName, lastName, email, password, role string) *utils.Result {
	var count int64
	if err := s.DB.Model(&models.StaffUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return utils.Fault(err)
	}
	if count > 0 {
		return utils.Conflict("Email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Fault(err)
	}

	if strings.TrimSpace(role) == "" {
		role = "staff"
	}

	user := models.StaffUser{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         strings.ToLower(role),
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return utils.Fault(err)
	}

	utils.InfoLogger.Printf("New staff registered: %s (role=%s)", user.Email, user.Role)

	return utils.Created(map[string]string{"staff_id": user.ID})
}

// Logout memasukkan token ke blacklist selama TTL default (7 hari).
func (s *AuthService) Logout(ctx context.Context, token string) *utils.Result {
	if token == "" {
		return utils.Failure("Missing token")
	}
	if err := s.Blacklist.Blacklist(ctx, token); err != nil {
		return utils.Fault(err)
	}
	return utils.Ok(map[string]bool{"logged_out": true})
}
