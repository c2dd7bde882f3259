// Package navbin reads and writes fixed size NAV records.
//
// A file is a plain sequence of little endian records, each a nanosecond
// unix timestamp followed by the NAV as an IEEE 754 double.
package navbin

import "time"

const RecordSize = 16

type Record struct {
	TimeStamp int64
	Nav       float64
}

func (r Record) Time() time.Time {
	return time.Unix(0, r.TimeStamp).UTC()
}
