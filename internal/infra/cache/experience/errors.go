package experience

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("experience.cache: read failed")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("experience.cache: write failed")

	// ErrDecode возвращается, когда содержимое кеша не удалось разобрать
	ErrDecode = errors.New("experience.cache: decode failed")
)
