package bible

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// book is a canonical English name, as bible-api.com expects it, and the
// Spanish and abbreviated names that resolve to it.
type book struct {
	name    string
	aliases []string
}

var books = []book{
	{"Genesis", []string{"génesis", "gen", "gn"}},
	{"Exodus", []string{"éxodo", "ex", "exo", "exod"}},
	{"Leviticus", []string{"levítico", "lev", "lv"}},
	{"Numbers", []string{"números", "num", "nm"}},
	{"Deuteronomy", []string{"deuteronomio", "deut", "dt"}},
	{"Joshua", []string{"josué", "jos", "josh"}},
	{"Judges", []string{"jueces", "jue", "judg"}},
	{"Ruth", []string{"rut", "rt"}},
	{"1 Samuel", []string{"1 samuel", "1 sam", "1 sa", "1 s"}},
	{"2 Samuel", []string{"2 samuel", "2 sam", "2 sa", "2 s"}},
	{"1 Kings", []string{"1 reyes", "1 re", "1 r", "1 kgs"}},
	{"2 Kings", []string{"2 reyes", "2 re", "2 r", "2 kgs"}},
	{"1 Chronicles", []string{"1 crónicas", "1 cr", "1 cro", "1 chr"}},
	{"2 Chronicles", []string{"2 crónicas", "2 cr", "2 cro", "2 chr"}},
	{"Ezra", []string{"esdras", "esd"}},
	{"Nehemiah", []string{"nehemías", "neh"}},
	{"Esther", []string{"ester", "est"}},
	{"Job", []string{"jb"}},
	{"Psalms", []string{"salmos", "salmo", "sal", "psalm", "ps", "psa"}},
	{"Proverbs", []string{"proverbios", "prov", "pr", "prv"}},
	{"Ecclesiastes", []string{"eclesiastés", "ecl", "ec", "eccl", "qohelet"}},
	{"Song of Solomon", []string{"cantares", "cantar de los cantares", "cantar", "cnt", "song of songs", "song"}},
	{"Isaiah", []string{"isaías", "is", "isa"}},
	{"Jeremiah", []string{"jeremías", "jer", "jr"}},
	{"Lamentations", []string{"lamentaciones", "lam", "lm"}},
	{"Ezekiel", []string{"ezequiel", "ez", "ezek"}},
	{"Daniel", []string{"dn", "dan"}},
	{"Hosea", []string{"oseas", "os", "hos"}},
	{"Joel", []string{"jl"}},
	{"Amos", []string{"amós", "am"}},
	{"Obadiah", []string{"abdías", "abd", "obad"}},
	{"Jonah", []string{"jonás", "jon"}},
	{"Micah", []string{"miqueas", "miq", "mic"}},
	{"Nahum", []string{"nahúm", "nah"}},
	{"Habakkuk", []string{"habacuc", "hab"}},
	{"Zephaniah", []string{"sofonías", "sof", "zeph"}},
	{"Haggai", []string{"hageo", "hag"}},
	{"Zechariah", []string{"zacarías", "zac", "zech"}},
	{"Malachi", []string{"malaquías", "mal"}},
	{"Matthew", []string{"mateo", "mt", "mat", "matt"}},
	{"Mark", []string{"marcos", "mc", "mr", "mk"}},
	{"Luke", []string{"lucas", "lc", "lk"}},
	{"John", []string{"juan", "jn"}},
	{"Acts", []string{"hechos", "hch", "hechos de los apóstoles"}},
	{"Romans", []string{"romanos", "rom", "ro"}},
	{"1 Corinthians", []string{"1 corintios", "1 co", "1 cor"}},
	{"2 Corinthians", []string{"2 corintios", "2 co", "2 cor"}},
	{"Galatians", []string{"gálatas", "gá", "gal"}},
	{"Ephesians", []string{"efesios", "ef", "eph"}},
	{"Philippians", []string{"filipenses", "fil", "flp", "phil"}},
	{"Colossians", []string{"colosenses", "col"}},
	{"1 Thessalonians", []string{"1 tesalonicenses", "1 ts", "1 tes", "1 thess"}},
	{"2 Thessalonians", []string{"2 tesalonicenses", "2 ts", "2 tes", "2 thess"}},
	{"1 Timothy", []string{"1 timoteo", "1 ti", "1 tim"}},
	{"2 Timothy", []string{"2 timoteo", "2 ti", "2 tim"}},
	{"Titus", []string{"tito", "tit"}},
	{"Philemon", []string{"filemón", "flm", "phlm"}},
	{"Hebrews", []string{"hebreos", "heb", "he"}},
	{"James", []string{"santiago", "stg", "sant", "jas"}},
	{"1 Peter", []string{"1 pedro", "1 pe", "1 ped", "1 pet"}},
	{"2 Peter", []string{"2 pedro", "2 pe", "2 ped", "2 pet"}},
	{"1 John", []string{"1 juan", "1 jn"}},
	{"2 John", []string{"2 juan", "2 jn"}},
	{"3 John", []string{"3 juan", "3 jn"}},
	{"Jude", []string{"judas", "jud"}},
	{"Revelation", []string{"apocalipsis", "ap", "apoc", "rev", "revelación", "revelations"}},
}

// bookIndex maps a normalised alias to the canonical name
var bookIndex = buildBookIndex()

func buildBookIndex() map[string]string {
	idx := make(map[string]string, len(books)*5)
	for _, b := range books {
		idx[normalizeName(b.name)] = b.name
		for _, a := range b.aliases {
			idx[normalizeName(a)] = b.name
		}
	}
	return idx
}

// foldAccents drops combining marks: "Éxodo" -> "Exodo". The ordinal
// indicators º and ª have no decomposition and pass through.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ordinals rewrites the spoken and roman forms of a numbered book prefix
var ordinals = map[string]string{
	"i": "1", "ii": "2", "iii": "3",
	"1ra": "1", "1ro": "1", "1a": "1", "1o": "1", "1º": "1", "1ª": "1",
	"2da": "2", "2do": "2", "2a": "2", "2o": "2", "2º": "2", "2ª": "2",
	"3ra": "3", "3ro": "3", "3a": "3", "3o": "3", "3º": "3", "3ª": "3",
	"primera": "1", "primero": "1", "primer": "1", "first": "1",
	"segunda": "2", "segundo": "2", "second": "2",
	"tercera": "3", "tercero": "3", "third": "3",
}

// normalizeName lowercases, strips accents and dots, collapses spaces and
// turns ordinal prefixes into digits: "Primera de Corintios" -> "1 corintios".
func normalizeName(s string) string {
	s = strings.ReplaceAll(foldAccents(strings.ToLower(s)), ".", " ")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	if n, ok := ordinals[fields[0]]; ok && len(fields) > 1 {
		fields[0] = n
	}
	// "1corintios" -> "1 corintios"
	if c := fields[0][0]; c >= '1' && c <= '3' && len(fields[0]) > 1 && fields[0][1] >= 'a' && fields[0][1] <= 'z' {
		fields = append([]string{fields[0][:1], fields[0][1:]}, fields[1:]...)
	}
	// "1 de corintios" / "1 a los corintios"
	if len(fields) > 2 && fields[0] >= "1" && fields[0] <= "3" {
		switch {
		case fields[1] == "de":
			fields = append(fields[:1], fields[2:]...)
		case len(fields) > 3 && fields[1] == "a" && (fields[2] == "los" || fields[2] == "las"):
			fields = append(fields[:1], fields[3:]...)
		}
	}

	return strings.Join(fields, " ")
}

// NormalizeBook resolves a Spanish, English or abbreviated book name to the
// English name bible-api.com understands.
func NormalizeBook(name string) (string, bool) {
	canonical, ok := bookIndex[normalizeName(name)]
	return canonical, ok
}

// SuggestBook returns the canonical book whose name or alias is closest to a
// misspelt name, e.g. "Genesiss" -> "Genesis". Short abbreviations are not
// candidates and at most two edits are tolerated.
func SuggestBook(name string) (string, bool) {
	n := normalizeName(name)
	size := utf8.RuneCountInString(n)
	if size < 4 {
		return "", false
	}
	limit := 1
	if size >= 6 {
		limit = 2
	}

	best, bestDist := "", limit+1
	for _, b := range books {
		for _, alias := range append([]string{b.name}, b.aliases...) {
			key := normalizeName(alias)
			if utf8.RuneCountInString(key) < 4 {
				continue
			}
			if d := levenshtein.ComputeDistance(n, key); d < bestDist {
				best, bestDist = b.name, d
			}
		}
	}
	return best, best != ""
}

// BookNames returns the canonical names in canonical order
func BookNames() []string {
	names := make([]string, len(books))
	for i, b := range books {
		names[i] = b.name
	}
	return names
}
