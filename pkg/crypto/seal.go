// Package crypto — ban kayıtlarındaki hassas alanların (ip) at-rest şifrelenmesi.
//
// XChaCha20-Poly1305 (golang.org/x/crypto) kullanılır:
// - 24-byte nonce → rastgele nonce çakışma riski pratikte yok
// - AEAD: hem gizlilik hem bütünlük (ciphertext değiştirilirse Open hata verir)
//
// Saklama formatı: base64(nonce || ciphertext || tag)
//
// Kullanım:
//
//	key, _ := crypto.DeriveKey(cfg.Crypto.IPSealKey)
//	sealer, _ := crypto.NewSealer(key)
//	stored, _ := sealer.Seal("203.0.113.7")
//	ip, _ := sealer.Open(stored)
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// DeriveKey, hex-encoded string'den 32-byte anahtar oluşturur.
// Input tam 64 hex karakter (= 32 byte) olmalıdır.
func DeriveKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("key must be exactly %d bytes (%d hex chars), got %d bytes",
			chacha20poly1305.KeySize, chacha20poly1305.KeySize*2, len(key))
	}
	return key, nil
}

// Sealer, tek bir anahtarla Seal/Open yapan AEAD sarmalayıcısı.
// cipher.AEAD concurrent kullanım için güvenlidir.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer, 32-byte anahtardan Sealer oluşturur.
func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("chacha20poly1305.NewX: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal, plaintext'i şifreler. Boş string boş string olarak kalır —
// ip yakalanamadığında kolonda anlamsız ciphertext tutmayız.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open, Seal çıktısını çözer.
func (s *Sealer) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	ns := s.aead.NonceSize()
	if len(data) < ns+s.aead.Overhead() {
		return "", fmt.Errorf("sealed value too short")
	}

	plain, err := s.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}
