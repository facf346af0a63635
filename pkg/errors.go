// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error karşılaştırması string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrUnknownBan) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler (bkz. response.go).
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("missing permissions")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("invalid form body")
	ErrRateLimited   = errors.New("you are being rate limited")
	ErrInternal      = errors.New("internal error")

	// ErrUnknownBan hem "kayıt yok" hem "kayıt var ama self-ban" durumunda döner.
	// İki durum client tarafından ayırt edilemez; ayrı bir error değeri TANIMLANMAMALI.
	ErrUnknownBan = errors.New("unknown ban")

	// ErrUnknownUser, hedef kullanıcının public profili çözülemediğinde döner.
	ErrUnknownUser = errors.New("unknown user")

	// ErrCollaborator, membership/storage/event bus çağrısı başarısız olduğunda
	// asıl hatayı sarmalar: fmt.Errorf("%w: ...: %v", pkg.ErrCollaborator, err)
	ErrCollaborator = errors.New("upstream collaborator failure")
)
