package lexer

// keywords maps lowercase SQL keywords to their token types.
// Lookup is bucketed by length so a candidate is only compared against
// keywords of the same size.

// kwEntry is a keyword table entry.
type kwEntry struct {
	word string
	tok  TokenType
}

var keywordsByLen [16][]kwEntry

func init() {
	words := []kwEntry{
		{"all", ALL},
		{"and", AND},
		{"as", AS},
		{"asc", ASC},
		{"between", BETWEEN},
		{"by", BY},
		{"create", CREATE},
		{"delete", DELETE},
		{"desc", DESC},
		{"distinct", DISTINCT},
		{"drop", DROP},
		{"exists", EXISTS},
		{"from", FROM},
		{"group", GROUP},
		{"having", HAVING},
		{"in", IN},
		{"inner", INNER},
		{"insert", INSERT},
		{"into", INTO},
		{"is", IS},
		{"join", JOIN},
		{"left", LEFT},
		{"like", LIKE},
		{"limit", LIMIT},
		{"not", NOT},
		{"null", NULL_KW},
		{"offset", OFFSET},
		{"on", ON},
		{"or", OR},
		{"order", ORDER},
		{"outer", OUTER},
		{"right", RIGHT},
		{"select", SELECT},
		{"set", SET},
		{"union", UNION},
		{"update", UPDATE},
		{"values", VALUES},
		{"where", WHERE},
	}
	for _, e := range words {
		l := len(e.word)
		if l < len(keywordsByLen) {
			keywordsByLen[l] = append(keywordsByLen[l], e)
		}
	}
}

// lookupKeyword returns the token for a keyword, or IDENT if not found.
// val must be lowercase.
func lookupKeyword(val []byte) TokenType {
	l := len(val)
	if l == 0 || l >= len(keywordsByLen) {
		return IDENT
	}
	bucket := keywordsByLen[l]
	for i := range bucket {
		if string(val) == bucket[i].word {
			return bucket[i].tok
		}
	}
	return IDENT
}

// IsReserved reports whether word, in any letter case, is a keyword.
func IsReserved(word string) bool {
	if len(word) >= len(keywordsByLen) {
		return false
	}
	var buf [len(keywordsByLen)]byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		buf[i] = c
	}
	return lookupKeyword(buf[:len(word)]) != IDENT
}
