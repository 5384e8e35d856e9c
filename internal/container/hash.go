package container

import (
	"github.com/cespare/xxhash/v2"
)

var hashKey = func(key string) uint64 {
	return xxhash.Sum64String(key)
}
