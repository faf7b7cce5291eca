package fs

import "time"

// epoch is the filesystem's date epoch, per spec §6 "days since epoch
// 1978-01-01".
var epoch = time.Date(1978, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateTriple is the (days, minutes, ticks) encoding spec §6 names for
// root-block and directory-entry timestamps: days since epoch, minutes
// since midnight, and ticks (1/50s) since the start of that minute.
type DateTriple struct {
	Days    uint32
	Minutes uint32
	Ticks   uint32
}

// EncodeTime converts a wall-clock time to the filesystem's date triple.
func EncodeTime(t time.Time) DateTriple {
	t = t.UTC()
	days := uint32(t.Sub(epoch).Hours() / 24)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	sinceMidnight := t.Sub(midnight)
	minutes := uint32(sinceMidnight.Minutes())
	remainder := sinceMidnight - time.Duration(minutes)*time.Minute
	ticks := uint32(remainder.Seconds() * 50)
	return DateTriple{Days: days, Minutes: minutes, Ticks: ticks}
}

// DecodeTime converts a date triple back to a wall-clock time.
func DecodeTime(d DateTriple) time.Time {
	base := epoch.AddDate(0, 0, int(d.Days))
	base = base.Add(time.Duration(d.Minutes) * time.Minute)
	base = base.Add(time.Duration(float64(d.Ticks)/50.0) * time.Second)
	return base
}

// writeDateTriple stores d as three consecutive big-endian longwords
// starting at off, the layout every timestamped block field uses.
func writeDateTriple(b Block, off int, d DateTriple) {
	b.putU32(off, d.Days)
	b.putU32(off+4, d.Minutes)
	b.putU32(off+8, d.Ticks)
}

func readDateTriple(b Block, off int) DateTriple {
	return DateTriple{Days: b.u32(off), Minutes: b.u32(off + 4), Ticks: b.u32(off + 8)}
}

// rootLastModOffset is the root block's own last-modification date
// triple, distinct from the volume-creation-date triple that follows the
// volume label.
const rootLastModOffset = 420
