package wordclock

import "strings"

// Faceplate holds the printed letters, top row first, read left to right.
var Faceplate = [Rows]string{
	"ILMESTIDEUX",
	"QUATRELUNES",
	"HUITROISEPT",
	"NEUFONZESIX",
	"MIDIXMINUIT",
	"CINQYHEURES",
	"JMOINSKLETB",
	"DEMIELQUART",
	"VINGT-CINQW",
	"DIX+1234PAM",
}

// Letter returns the printed letter at column x, row y.
func Letter(x, y int) byte {
	return Faceplate[y][x]
}

// Words returns the lit letters grouped by row, dark letters replaced with
// dots. cell maps column and row to the physical index.
func Words(s ActiveSet, cell func(x, y int) int) []string {
	rows := make([]string, Rows)
	for y := 0; y < Rows; y++ {
		var b strings.Builder
		for x := 0; x < Columns; x++ {
			if s.Has(cell(x, y)) {
				b.WriteByte(Letter(x, y))
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}
