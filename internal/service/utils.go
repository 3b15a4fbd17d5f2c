package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const localRefRandLen = 9

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newLocalRef генерирует локальный референс заказа вида "ORD-<unix millis>-<случайный суффикс>".
// Служит плейсхолдером идентификатора, пока провайдер не выдал внешний id.
func newLocalRef() string {
	suffix := make([]byte, localRefRandLen)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.IntN(len(base36Alphabet))] //nolint:gosec
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
