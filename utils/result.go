package utils

import "net/http"

// Result adalah bentuk hasil seragam untuk semua service di core.
// Kegagalan yang "diharapkan" (not found, conflict, dst) selalu
// dikembalikan sebagai Result terklasifikasi, bukan lewat panic/error.
type Result struct {
	Success    bool
	Data       interface{}
	Err        string
	StatusCode int
}

func Ok(data interface{}) *Result {
	return &Result{Success: true, Data: data, StatusCode: http.StatusOK}
}

func Created(data interface{}) *Result {
	return &Result{Success: true, Data: data, StatusCode: http.StatusCreated}
}

func Failure(message string) *Result {
	return &Result{Success: false, Err: message, StatusCode: http.StatusBadRequest}
}

func NotFound(message string) *Result {
	return &Result{Success: false, Err: message, StatusCode: http.StatusNotFound}
}

func Conflict(message string) *Result {
	return &Result{Success: false, Err: message, StatusCode: http.StatusConflict}
}

func Unauthorized(message string) *Result {
	return &Result{Success: false, Err: message, StatusCode: http.StatusUnauthorized}
}

// Fault dipakai untuk kegagalan tak terduga (storage down, data korup).
// Detail error dicatat di log, klien hanya menerima pesan generik.
func Fault(err error) *Result {
	if ErrorLogger != nil {
		ErrorLogger.Errorf("unexpected fault: %v", err)
	}
	return &Result{Success: false, Err: "Internal server error", StatusCode: http.StatusInternalServerError}
}
