package reciter

type charFlag uint8

const (
	flagNumeric   charFlag = 0x01
	flagRuleset2  charFlag = 0x02
	flagVoiced    charFlag = 0x04
	flag08        charFlag = 0x08
	flagDiphthong charFlag = 0x10
	flagConsonant charFlag = 0x20
	flagVowelOrY  charFlag = 0x40
	flagAlpha     charFlag = 0x80
)

const (
	r2    = flagRuleset2
	digit = flagNumeric | flagRuleset2
	vowel = flagAlpha | flagVowelOrY
	cons  = flagAlpha | flagConsonant
)

// charFlags classifies the upper-cased ASCII input. Unlisted bytes are
// unclassified and read as word boundaries.
var charFlags = [128]charFlag{
	'!': r2, '"': r2, '#': r2, '$': r2, '%': r2, '&': r2,
	'\'': flagAlpha | r2,
	'*': r2, '+': r2, ',': r2, '-': r2, '.': r2, '/': r2,
	'0': digit, '1': digit, '2': digit, '3': digit, '4': digit,
	'5': digit, '6': digit, '7': digit, '8': digit, '9': digit,
	':': r2, ';': r2, '<': r2, '=': r2, '>': r2, '?': r2, '@': r2,
	'A': vowel,
	'B': cons | flag08,
	'C': cons | flagDiphthong,
	'D': cons | flagVoiced | flag08,
	'E': vowel,
	'F': cons,
	'G': cons | flagDiphthong | flag08,
	'H': cons,
	'I': vowel,
	'J': cons | flagDiphthong | flagVoiced | flag08,
	'K': cons,
	'L': cons | flagVoiced | flag08,
	'M': cons | flag08,
	'N': cons | flagVoiced | flag08,
	'O': vowel,
	'P': cons,
	'Q': cons,
	'R': cons | flagVoiced | flag08,
	'S': cons | flagDiphthong | flagVoiced,
	'T': cons | flagVoiced,
	'U': vowel,
	'V': cons | flag08,
	'W': cons | flag08,
	'X': cons | flagDiphthong,
	'Y': vowel,
	'Z': cons | flagDiphthong | flagVoiced | flag08,
	'^': r2,
	'`': flagConsonant,
}

func flagsOf(c byte) charFlag {
	if c >= 128 {
		return 0
	}
	return charFlags[c]
}

// charAt returns 0 outside the text on either side.
func charAt(text string, pos int) byte {
	if pos < 0 || pos >= len(text) {
		return 0
	}
	return text[pos]
}

func flagsAt(text string, pos int, f charFlag) bool {
	return flagsOf(charAt(text, pos))&f != 0
}

// substr truncates at the end of text and is empty when pos is outside it.
func substr(text string, pos, n int) string {
	if pos < 0 || pos >= len(text) {
		return ""
	}
	end := pos + n
	if end > len(text) {
		end = len(text)
	}
	return text[pos:end]
}
