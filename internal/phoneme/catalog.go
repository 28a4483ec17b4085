// Package phoneme holds the fixed phoneme catalog and the mutable sequence
// the parser rewrites in place.
package phoneme

// Flag is the per-phoneme property bitset.
type Flag uint16

const (
	FlagUnvoicedStop Flag = 0x0001
	FlagStop         Flag = 0x0002
	FlagVoiced       Flag = 0x0004
	Flag0008         Flag = 0x0008
	FlagDiphthong    Flag = 0x0010
	FlagDipYX        Flag = 0x0020
	FlagConsonant    Flag = 0x0040
	FlagVowel        Flag = 0x0080
	FlagPunctuation  Flag = 0x0100
	Flag0200         Flag = 0x0200
	FlagAlveolar     Flag = 0x0400
	FlagNasal        Flag = 0x0800
	FlagLiquid       Flag = 0x1000
	FlagFricative    Flag = 0x2000
	Flag4000         Flag = 0x4000
	Flag8000         Flag = 0x8000
)

// Count is the number of catalog entries.
const Count = 81

// Indexes referenced by name outside the catalog.
const (
	Pause    = 0
	Period   = 1
	Question = 2
	AX       = 13
	UX       = 16
	RX       = 18
	LX       = 19
	WX       = 20
	YX       = 21
	R        = 23
	L        = 24
	M        = 27
	N        = 28
	DX       = 30
	Q        = 31
	S        = 32
	H        = 36
	X        = 37
	CH       = 42
	CH2      = 43
	J        = 44
	J2       = 45
	UW       = 53
	D        = 57
	G        = 60
	GX       = 63
	T        = 69
	K        = 72
	KX       = 75
	UL       = 78
	UM       = 79
	UN       = 80
)

var names = [Count]string{
	" *", ".*", "?*", ",*", "-*", "IY", "IH", "EH", "AE", "AA", "AH", "AO", "UH", "AX", "IX", "ER", "UX", "OH",
	"RX", "LX", "WX", "YX", "WH", "R*", "L*", "W*", "Y*", "M*", "N*", "NX", "DX", "Q*", "S*", "SH", "F*", "TH",
	"/H", "/X", "Z*", "ZH", "V*", "DH", "CH", "**", "J*", "**", "**", "**", "EY", "AY", "OY", "AW", "OW", "UW",
	"B*", "**", "**", "D*", "**", "**", "G*", "**", "**", "GX", "**", "**", "P*", "**", "**", "T*", "**", "**",
	"K*", "**", "**", "KX", "**", "**", "UL", "UM", "UN",
}

const (
	pu  = FlagPunctuation | Flag4000 | Flag8000
	vow = FlagVoiced | FlagVowel
	fv  = FlagDipYX | vow
	dip = FlagDiphthong | vow
	liq = FlagConsonant | FlagLiquid | FlagVoiced
	nas = FlagConsonant | FlagNasal | FlagVoiced | Flag0008
	vst = FlagConsonant | FlagStop | FlagVoiced | Flag0008
	ust = FlagConsonant | FlagStop | FlagUnvoicedStop | Flag0008
	fri = FlagConsonant | FlagFricative
	alv = FlagAlveolar
)

var flags = [Count]Flag{
	Flag8000, pu, pu, pu, pu, // pauses
	fv, fv, fv, fv, fv, fv, // IY IH EH AE AA AH
	vow, vow, // AO UH
	fv, fv, // AX IX
	vow, vow, vow, vow, vow, vow, vow, // ER UX OH RX LX WX YX
	FlagConsonant | FlagVoiced, // WH
	liq, liq, liq, liq, // R L W Y
	nas, alv | nas, nas, // M N NX
	alv | FlagConsonant | Flag0008,                   // DX
	FlagConsonant | FlagVoiced | Flag0008 | Flag4000, // Q
	alv | fri, fri, fri, alv | fri, // S SH F TH
	FlagConsonant, FlagConsonant, // /H /X
	alv | fri | FlagVoiced, fri | FlagVoiced, fri | FlagVoiced, alv | fri | FlagVoiced, // Z ZH V DH
	fri | Flag0008,                        // CH
	fri,                                   // CH'
	FlagConsonant | FlagVoiced | Flag0008, // J
	fri | FlagVoiced,                      // J'
	0, 0,
	FlagDipYX | dip, FlagDipYX | dip, FlagDipYX | dip, // EY AY OY
	dip, dip, dip, // AW OW UW
	vst, vst, vst, // B
	alv | vst, alv | vst, alv | vst, // D
	vst, vst, vst, // G
	vst, vst, vst, // GX
	ust, ust, ust, // P
	alv | ust, alv | ust, alv | ust, // T
	ust, ust, ust, // K
	ust, ust, ust, // KX
	FlagVowel, // UL
	FlagConsonant | FlagUnvoicedStop | FlagVowel, // UM
	FlagConsonant | FlagUnvoicedStop | FlagVowel, // UN
}

// lengths packs stressed<<8 | unstressed.
var lengths = [Count]uint16{
	0x0000, 0x1212, 0x1212, 0x1212, 0x0808,
	0x0B08, 0x0908, 0x0B08, 0x0E08, 0x0F0B, 0x0B06, 0x100C, 0x0C0A,
	0x0605, 0x0605, 0x0E0B, 0x0C0A, 0x0E0A, 0x0C0A, 0x0B09, 0x0808,
	0x0807, 0x0B09, 0x0A07, 0x0906, 0x0808, 0x0806, 0x0807, 0x0807,
	0x0807, 0x0302, 0x0505,
	0x0202, 0x0202, 0x0202, 0x0202, 0x0202, 0x0202,
	0x0606, 0x0606, 0x0807, 0x0606, 0x0606, 0x0202, 0x0908, 0x0403, 0x0201, 0x011E,
	0x0E0D, 0x0F0C, 0x0F0C, 0x0F0C, 0x0E0E, 0x0E09,
	0x0806, 0x0201, 0x0202,
	0x0705, 0x0201, 0x0101,
	0x0706, 0x0201, 0x0202,
	0x0706, 0x0201, 0x0202,
	0x0808, 0x0202, 0x0202,
	0x0604, 0x0202, 0x0202,
	0x0706, 0x0201, 0x0404,
	0x0706, 0x0101, 0x0404,
	0x05C7, 0x05FF, 0x05FF,
}

// stressDigits maps a stress value to its input character. Position 0 is
// a placeholder and never matches.
const stressDigits = "*12345678"

// Name returns the two character mnemonic of p.
func Name(p int) string {
	if p < 0 || p >= Count {
		return "??"
	}
	return names[p]
}

// Flags returns the property bitset of p. The End sentinel and any index
// outside the catalog have no flags.
func Flags(p int) Flag {
	if p < 0 || p >= Count {
		return 0
	}
	return flags[p]
}

// Has reports whether p carries any bit of f.
func Has(p int, f Flag) bool {
	return Flags(p)&f != 0
}

// UnstressedLength is the base frame count of p without stress.
func UnstressedLength(p int) int { return int(lengths[p] & 0xFF) }

// StressedLength is the base frame count of p with stress.
func StressedLength(p int) int { return int(lengths[p] >> 8) }

// FullMatch finds the entry whose mnemonic is exactly c1c2. Wildcard
// entries take part, so "S*" only matches the literal pair 'S','*'.
func FullMatch(c1, c2 byte) (int, bool) {
	for i, n := range names {
		if n[0] == c1 && n[1] == c2 {
			return i, true
		}
	}
	return 0, false
}

// WildMatch finds the first wildcard entry whose first character is c.
func WildMatch(c byte) (int, bool) {
	for i, n := range names {
		if n[0] == c && n[1] == '*' {
			return i, true
		}
	}
	return 0, false
}

// StressValue returns the stress value of a digit, or false when c is not
// a stress digit.
func StressValue(c byte) (int, bool) {
	for i := len(stressDigits) - 1; i > 0; i-- {
		if stressDigits[i] == c {
			return i, true
		}
	}
	return 0, false
}
