package shared

import (
	"os"
	"strconv"
	"strings"
)

// HotelIDs is the default sync target set; SYNC_HOTEL_IDS (comma
// separated) overrides it.
var HotelIDs = []int64{
	1001, 1002, 1003, 1004, 1005,
	2001, 2002, 2003,
	3001, 3002,
}

func SyncHotelIDs() []int64 {
	raw := os.Getenv("SYNC_HOTEL_IDS")
	if raw == "" {
		return HotelIDs
	}
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return HotelIDs
	}
	return out
}
