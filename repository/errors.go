package repository

import "strings"

// isUniqueViolation, SQLite UNIQUE / PRIMARY KEY constraint hatasını kontrol eder.
// modernc.org/sqlite typed error yerine mesaj döndüğünden string eşleşmesi yapılır.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
