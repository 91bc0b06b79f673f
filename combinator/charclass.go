package combinator

// ASCII classification, matching the C locale.

func isDigit(r rune) bool    { return '0' <= r && r <= '9' }
func isUpper(r rune) bool    { return 'A' <= r && r <= 'Z' }
func isLower(r rune) bool    { return 'a' <= r && r <= 'z' }
func isAlpha(r rune) bool    { return isUpper(r) || isLower(r) }
func isAlphaNum(r rune) bool { return isAlpha(r) || isDigit(r) }
func isLetter(r rune) bool   { return isAlpha(r) || r == '_' }
func isSpace(r rune) bool    { return r == ' ' || r == '\t' }

// Digit consumes one of 0-9.
func Digit() Parser[rune] { return Satisfy(isDigit, "digit") }

// Upper consumes one of A-Z.
func Upper() Parser[rune] { return Satisfy(isUpper, "upper") }

// Lower consumes one of a-z.
func Lower() Parser[rune] { return Satisfy(isLower, "lower") }

// Alpha consumes an ASCII letter.
func Alpha() Parser[rune] { return Satisfy(isAlpha, "alpha") }

// AlphaNum consumes an ASCII letter or digit.
func AlphaNum() Parser[rune] { return Satisfy(isAlphaNum, "alphaNum") }

// Letter consumes an ASCII letter or underscore.
func Letter() Parser[rune] { return Satisfy(isLetter, "letter") }

// Space consumes a space or a tab. Newlines are not spaces here.
func Space() Parser[rune] { return Satisfy(isSpace, "space") }

// Spaces skips any run of spaces and tabs.
func Spaces() Parser[struct{}] { return SkipMany(Space()) }
