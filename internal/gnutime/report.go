package gnutime

import (
	"math"
	"strconv"
	"strings"
)

// Report holds the parsed resource figures of one wrapped command.
type Report struct {
	WallSec    float64
	UserSec    float64
	SysSec     float64
	CpuPercent float64
	MaxRssKb   int64
}

// ParseReport reads the key:value report written by the format in Wrap.
// GNU time prepends a free-form line when the command exits non-zero or
// dies on a signal; that line, unknown keys and malformed numbers are all
// skipped, so a bad reading degrades to 0 instead of failing the run.
func ParseReport(raw []byte) Report {
	var rep Report
	for _, line := range strings.Split(string(raw), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "wall":
			rep.WallSec = parseFloat(value)
		case "user":
			rep.UserSec = parseFloat(value)
		case "sys":
			rep.SysSec = parseFloat(value)
		case "cpu":
			// %P renders as e.g. "95%", or "?%" when wall time was ~0.
			rep.CpuPercent = parseFloat(strings.TrimSuffix(value, "%"))
		case "maxrss":
			rep.MaxRssKb = parseInt(value)
		}
	}
	return rep
}

// MemoryMb converts the peak RSS to megabytes with 2-decimal rounding.
func (r Report) MemoryMb() float64 {
	return math.Round(float64(r.MaxRssKb)/1024*100) / 100
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
