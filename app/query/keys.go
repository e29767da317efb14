package query

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/minio/highwayhash"

	"gridline/app/interfaces"
)

// deliveryKeySeed seeds the highwayhash used for delivery keys. The key
// only needs to be stable within a process.
var deliveryKeySeed = []byte("gridline.query.delivery.key.v1!!")

// DeliveryKey condenses a query's identity (table, filter, sort,
// generation, window) into a short stable token used to correlate
// issued queries with their deliveries in logs.
func DeliveryKey(table, filter string, sort []interfaces.SortKey, generation uint64, offset, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "table:%s|filter:%s|gen:%d|window:%d+%d", table, filter, generation, offset, limit)
	for _, s := range sort {
		fmt.Fprintf(&b, "|sort:%s:%t", s.Column, s.Desc)
	}
	sum := highwayhash.Sum64([]byte(b.String()), deliveryKeySeed)
	var raw [8]byte
	for i := 0; i < 8; i++ {
		raw[i] = byte(sum >> (8 * i))
	}
	return hex.EncodeToString(raw[:])
}
