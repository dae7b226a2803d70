package wordclock

/*
Faceplate, physical numbering runs serpentine:

	01234567890  0→10
	ILMESTIDEUX
	10987654321  21→11
	QUATRELUNES
	23456789012  22→32
	HUITROISEPT
	32109876543  43→33
	NEUFONZESIX
	45678901234  44→54
	MIDIXMINUIT
	54321098765  65→55
	CINQYHEURES
	67890123456  66→76
	JMOINSKLETB
	76543210987  87→77
	DEMIELQUART
	89012345678  88→98
	VINGT-CINQW
	98765432109  109→99
	DIX+1234PAM
*/

// Storage widths of the fixed-size tables.
const (
	minuteWidth   = 15
	hourWidth     = 12
	itIsWidth     = 5
	dotWidth      = 2
	meridiemWidth = 2
	wifiWidth     = 23
	timeWidth     = 35
)

// minuteMasks is indexed by five-minute bucket (minute/5).
var minuteMasks = [12][minuteWidth]int{
	{none, none, none, none, none, none, none, none, none, none, none, none, none, none, none}, // :00
	{94, 95, 96, 97, none, none, none, none, none, none, none, none, none, none, none},         // :05 CINQ
	{109, 108, 107, none, none, none, none, none, none, none, none, none, none, none, none},    // :10 DIX
	{74, 75, 81, 80, 79, 78, 77, none, none, none, none, none, none, none, none},               // :15 ET QUART
	{88, 89, 90, 91, 92, none, none, none, none, none, none, none, none, none, none},           // :20 VINGT
	{88, 89, 90, 91, 92, 93, 94, 95, 96, 97, none, none, none, none, none},                     // :25 VINGT-CINQ
	{74, 75, 87, 86, 85, 84, 83, none, none, none, none, none, none, none, none},               // :30 ET DEMIE
	{67, 68, 69, 70, 71, 88, 89, 90, 91, 92, 93, 94, 95, 96, 97},                               // :35 MOINS VINGT-CINQ
	{67, 68, 69, 70, 71, 88, 89, 90, 91, 92, none, none, none, none, none},                     // :40 MOINS VINGT
	{67, 68, 69, 70, 71, 73, 74, 81, 80, 79, 78, 77, none, none, none},                         // :45 MOINS LE QUART
	{67, 68, 69, 70, 71, 109, 108, 107, none, none, none, none, none, none, none},              // :50 MOINS DIX
	{67, 68, 69, 70, 71, 94, 95, 96, 97, none, none, none, none, none, none},                   // :55 MOINS CINQ
}

// hourMasks is indexed by the normalized hour; 0 and 12 have no HEURE(S) suffix.
var hourMasks = [13][hourWidth]int{
	{49, 50, 51, 52, 53, 54, none, none, none, none, none, none}, // MINUIT
	{14, 13, 12, 60, 59, 58, 57, 56, none, none, none, none},     // UNE HEURE
	{7, 8, 9, 10, 60, 59, 58, 57, 56, 55, none, none},            // DEUX HEURES
	{25, 26, 27, 28, 29, 60, 59, 58, 57, 56, 55, none},           // TROIS HEURES
	{21, 20, 19, 18, 17, 16, 60, 59, 58, 57, 56, 55},             // QUATRE HEURES
	{65, 64, 63, 62, 60, 59, 58, 57, 56, 55, none, none},         // CINQ HEURES
	{35, 34, 33, 60, 59, 58, 57, 56, 55, none, none, none},       // SIX HEURES
	{29, 30, 31, 32, 60, 59, 58, 57, 56, 55, none, none},         // SEPT HEURES
	{22, 23, 24, 25, 60, 59, 58, 57, 56, 55, none, none},         // HUIT HEURES
	{43, 42, 41, 40, 60, 59, 58, 57, 56, 55, none, none},         // NEUF HEURES
	{46, 47, 48, 60, 59, 58, 57, 56, 55, none, none, none},       // DIX HEURES
	{39, 38, 37, 36, 60, 59, 58, 57, 56, 55, none, none},         // ONZE HEURES
	{44, 45, 46, 47, none, none, none, none, none, none, none, none}, // MIDI
}

// itIsMask spells "IL EST".
var itIsMask = [itIsWidth]int{0, 1, 3, 4, 5}

// dotMasks is indexed by minute%5 - 1: "+" followed by the digit.
var dotMasks = [4][dotWidth]int{
	{106, 105}, // +1
	{106, 104}, // +2
	{106, 103}, // +3
	{106, 102}, // +4
}

// meridiemMasks is indexed by 0 for AM, 1 for PM.
var meridiemMasks = [2][meridiemWidth]int{
	{100, 99}, // AM
	{101, 99}, // PM
}

// wifiMask draws "WIFI" while the network is down.
var wifiMask = [wifiWidth]int{2, 6, 13, 15, 19, 24, 26, 28, 30, 35, 38, 40, 60, 61, 62, 69, 80, 83, 84, 91, 95, 102, 106}

// timeMask draws "TIME" while waiting for the clock to synchronize.
var timeMask = [timeWidth]int{2, 3, 4, 15, 18, 25, 28, 37, 40, 56, 57, 58, 60, 61, 63, 64, 67, 68, 69, 70, 71, 73, 79, 80, 82, 84, 86, 89, 93, 95, 100, 101, 102, 104, 108}

// Masks lists every word mask of the clock tables without padding,
// in table order: lead-in, minutes, hours, dots, meridiem.
func Masks() [][]int {
	var out [][]int
	add := func(row []int) {
		m := make([]int, 0, len(row))
		for _, c := range row {
			if c != none {
				m = append(m, c)
			}
		}
		if len(m) > 0 {
			out = append(out, m)
		}
	}
	add(itIsMask[:])
	for i := range minuteMasks {
		add(minuteMasks[i][:])
	}
	for i := range hourMasks {
		add(hourMasks[i][:])
	}
	for i := range dotMasks {
		add(dotMasks[i][:])
	}
	for i := range meridiemMasks {
		add(meridiemMasks[i][:])
	}
	return out
}
