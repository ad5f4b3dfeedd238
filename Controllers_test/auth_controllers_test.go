package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/childcheck-app/cache"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/router"
	"github.com/yeremiapane/childcheck-app/utils"
)

// setupTestApp menyiapkan router lengkap dengan SQLite in-memory
func setupTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

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

	blacklist := cache.NewMemoryBlacklist(time.Minute)
	t.Cleanup(blacklist.Close)
	enc := encryption.New("test-encryption-key")
	return router.SetupRouter(db, blacklist, enc), db
}

// seedAdmin membuat user admin langsung di DB untuk bootstrap test
func seedAdmin(t *testing.T, db *gorm.DB, email, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	admin := models.StaffUser{
		ID:           uuid.New().String(),
		FirstName:    "Admin",
		LastName:     "Utama",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         "admin",
	}
	assert.NoError(t, db.Create(&admin).Error)
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, r *gin.Engine, email, password string) string {
	w := doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["status"])
	data := response["data"].(map[string]interface{})
	token, ok := data["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	return token
}

func TestLoginRegisterLogoutFlow(t *testing.T) {
	r, db := setupTestApp(t)
	seedAdmin(t, db, "admin@example.com", "admin12345")

	token := loginAs(t, r, "admin@example.com", "admin12345")

	// Admin mendaftarkan staff baru
	w := doJSON(t, r, "POST", "/api/auth/register", token, map[string]string{
		"first_name": "Maria",
		"last_name":  "Tan",
		"email":      "maria@example.com",
		"password":   "password123",
		"role":       "staff",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Staff non-admin tidak boleh register
	staffToken := loginAs(t, r, "maria@example.com", "password123")
	w = doJSON(t, r, "POST", "/api/auth/register", staffToken, map[string]string{
		"first_name": "Lain",
		"last_name":  "Orang",
		"email":      "lain@example.com",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Logout -> token yang sama ditolak 401
	w = doJSON(t, r, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/auth/register", token, map[string]string{
		"first_name": "Lagi",
		"last_name":  "Orang",
		"email":      "lagi@example.com",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, db := setupTestApp(t)
	seedAdmin(t, db, "admin@example.com", "admin12345")

	w := doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r, _ := setupTestApp(t)

	w := doJSON(t, r, "GET", "/api/children", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
