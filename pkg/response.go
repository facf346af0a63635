package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse, tüm API yanıtları için standart format.
// Frontend her zaman aynı yapıyı bekler.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Discord uyumlu JSON error kodları. Client'lar mesaj yerine bu kodlara göre dallanır.
const (
	CodeUnknownUser      = 10013
	CodeUnknownBan       = 10026
	CodeMissingPerms     = 50013
	CodeInvalidFormBody  = 50035
	CodeGeneralException = 0
)

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// NoContent, body'siz 204 yanıtı gönderir (unban gibi "sadece ack" endpoint'leri için).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak uygun HTTP status code'a çevrilir.
//
// 5xx durumlarında iç hata mesajı client'a sızdırılmaz; sadece sentinel mesajı gider.
func Error(w http.ResponseWriter, err error) {
	status, code := mapError(err)

	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		message = ErrInternal.Error()
	case http.StatusBadGateway:
		message = ErrCollaborator.Error()
	case http.StatusNotFound:
		// UnknownBan mesajı her iki durumda da birebir aynı olmalı.
		if errors.Is(err, ErrUnknownBan) {
			message = ErrUnknownBan.Error()
		}
	}

	writeError(w, status, code, message)
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeError(w, status, 0, message)
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode error response", http.StatusInternalServerError)
	}
}

// mapError, domain error'ları HTTP status + JSON error code ikilisine eşler.
// errors.Is() ile error chain kontrol edilir; wrap edilmiş error'lar da match eder.
func mapError(err error) (int, int) {
	switch {
	case errors.Is(err, ErrUnknownBan):
		return http.StatusNotFound, CodeUnknownBan
	case errors.Is(err, ErrUnknownUser):
		return http.StatusNotFound, CodeUnknownUser
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CodeGeneralException
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, CodeGeneralException
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, CodeMissingPerms
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, CodeGeneralException
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, CodeInvalidFormBody
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, CodeGeneralException
	case errors.Is(err, ErrCollaborator):
		return http.StatusBadGateway, CodeGeneralException
	default:
		return http.StatusInternalServerError, CodeGeneralException
	}
}
