package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders the card-face date as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatTime renders the card-face time as HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatTimer renders a countdown as MM:SS. Negative input clamps to 00:00.
func FormatTimer(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ElapsedSeconds is the whole seconds between start and now.
func ElapsedSeconds(start, now time.Time) int {
	return int(now.Sub(start) / time.Second)
}

// JoinSerialPairs joins serials two per line, the way they are printed on the
// card face.
func JoinSerialPairs(serials []string) string {
	parts := make([]string, 0, (len(serials)+1)/2)
	for i := 0; i < len(serials); i += 2 {
		end := i + 2
		if end > len(serials) {
			end = len(serials)
		}
		parts = append(parts, strings.Join(serials[i:end], ", "))
	}
	return strings.Join(parts, ",\n")
}
