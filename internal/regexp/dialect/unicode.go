package dialect

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"bennypowers.dev/rxls/internal/collections"
	"golang.org/x/text/unicode/runenames"
)

// generalCategories maps long general category names to their short form.
var generalCategories = map[string]string{
	"Letter":                "L",
	"Cased_Letter":          "LC",
	"Uppercase_Letter":      "Lu",
	"Lowercase_Letter":      "Ll",
	"Titlecase_Letter":      "Lt",
	"Modifier_Letter":       "Lm",
	"Other_Letter":          "Lo",
	"Mark":                  "M",
	"Combining_Mark":        "M",
	"Nonspacing_Mark":       "Mn",
	"Spacing_Mark":          "Mc",
	"Enclosing_Mark":        "Me",
	"Number":                "N",
	"Decimal_Number":        "Nd",
	"digit":                 "Nd",
	"Letter_Number":         "Nl",
	"Other_Number":          "No",
	"Punctuation":           "P",
	"punct":                 "P",
	"Connector_Punctuation": "Pc",
	"Dash_Punctuation":      "Pd",
	"Open_Punctuation":      "Ps",
	"Close_Punctuation":     "Pe",
	"Initial_Punctuation":   "Pi",
	"Final_Punctuation":     "Pf",
	"Other_Punctuation":     "Po",
	"Symbol":                "S",
	"Math_Symbol":           "Sm",
	"Currency_Symbol":       "Sc",
	"Modifier_Symbol":       "Sk",
	"Other_Symbol":          "So",
	"Separator":             "Z",
	"Space_Separator":       "Zs",
	"Line_Separator":        "Zl",
	"Paragraph_Separator":   "Zp",
	"Other":                 "C",
	"Control":               "Cc",
	"cntrl":                 "Cc",
	"Format":                "Cf",
	"Surrogate":             "Cs",
	"Private_Use":           "Co",
	"Unassigned":            "Cn",
}

// shortCategories are the short general category names, including the
// ones the standard library has no table for.
var shortCategories = collections.NewSet("LC", "L&", "Cn").
	Union(collections.NewSet(slices.Collect(maps.Keys(unicode.Categories))...))

// javaClasses are the POSIX and java.lang.Character classes accepted by
// \p{Name} in Java.
var javaClasses = collections.NewSet(
	"Lower", "Upper", "ASCII", "Alpha", "Digit", "Alnum", "Punct", "Graph",
	"Print", "Blank", "Cntrl", "XDigit", "Space",
	"javaLowerCase", "javaUpperCase", "javaWhitespace", "javaMirrored",
	"javaAlphabetic", "javaIdeographic", "javaTitleCase", "javaDigit",
	"javaDefined", "javaLetter", "javaLetterOrDigit", "javaJavaIdentifierStart",
	"javaJavaIdentifierPart", "javaUnicodeIdentifierStart",
	"javaUnicodeIdentifierPart", "javaIdentifierIgnorable", "javaSpaceChar",
	"javaISOControl",
	"IsAlphabetic", "IsIdeographic", "IsLetter", "IsLowercase", "IsUppercase",
	"IsTitlecase", "IsPunctuation", "IsControl", "IsWhite_Space", "IsWhiteSpace",
	"IsDigit", "IsHex_Digit", "IsHexDigit", "IsJoin_Control", "IsJoinControl",
	"IsNoncharacter_Code_Point", "IsNoncharacterCodePoint", "IsAssigned",
	"IsEmoji", "IsEmoji_Presentation", "IsEmoji_Modifier", "IsEmoji_Modifier_Base",
	"IsEmoji_Component", "IsExtended_Pictographic",
)

// perlSpecials are PCRE's non-Unicode property names.
var perlSpecials = collections.NewSet("Any", "L&", "Xan", "Xps", "Xsp", "Xwd", "Xuc")

// jsBinaryExtras are ECMAScript binary properties with no standard library
// table.
var jsBinaryExtras = collections.NewSet(
	"Any", "ASCII", "Assigned", "Alphabetic", "Alpha", "Lowercase", "Lower",
	"Uppercase", "Upper", "Emoji", "Emoji_Presentation", "EPres",
	"Emoji_Modifier", "EMod", "Emoji_Modifier_Base", "EBase",
	"Emoji_Component", "EComp", "Extended_Pictographic", "ExtPict",
	"ID_Start", "IDS", "ID_Continue", "IDC", "XID_Start", "XIDS",
	"XID_Continue", "XIDC", "Math", "Case_Ignorable", "CI", "Cased",
	"Changes_When_Casefolded", "CWCF", "Changes_When_Casemapped", "CWCM",
	"Changes_When_Lowercased", "CWL", "Changes_When_NFKC_Casefolded", "CWKCF",
	"Changes_When_Titlecased", "CWT", "Changes_When_Uppercased", "CWU",
	"Default_Ignorable_Code_Point", "DI", "Grapheme_Base", "Gr_Base",
	"Grapheme_Extend", "Gr_Ext", "Bidi_Mirrored", "Bidi_M",
)

func isGeneralCategory(name string) bool {
	if shortCategories.Has(name) {
		return true
	}
	_, ok := generalCategories[name]
	return ok
}

// scriptAliases maps the four-letter Script value aliases from
// PropertyValueAliases.txt to the long names unicode.Scripts uses.
var scriptAliases = map[string]string{
	"Adlm": "Adlam",
	"Hluw": "Anatolian_Hieroglyphs",
	"Arab": "Arabic",
	"Armn": "Armenian",
	"Avst": "Avestan",
	"Bali": "Balinese",
	"Bamu": "Bamum",
	"Bass": "Bassa_Vah",
	"Batk": "Batak",
	"Beng": "Bengali",
	"Bhks": "Bhaiksuki",
	"Bopo": "Bopomofo",
	"Brah": "Brahmi",
	"Brai": "Braille",
	"Bugi": "Buginese",
	"Buhd": "Buhid",
	"Cans": "Canadian_Aboriginal",
	"Cari": "Carian",
	"Aghb": "Caucasian_Albanian",
	"Cakm": "Chakma",
	"Cher": "Cherokee",
	"Chrs": "Chorasmian",
	"Zyyy": "Common",
	"Copt": "Coptic",
	"Qaac": "Coptic",
	"Xsux": "Cuneiform",
	"Cprt": "Cypriot",
	"Cpmn": "Cypro_Minoan",
	"Cyrl": "Cyrillic",
	"Dsrt": "Deseret",
	"Deva": "Devanagari",
	"Diak": "Dives_Akuru",
	"Dogr": "Dogra",
	"Dupl": "Duployan",
	"Egyp": "Egyptian_Hieroglyphs",
	"Elba": "Elbasan",
	"Elym": "Elymaic",
	"Ethi": "Ethiopic",
	"Geor": "Georgian",
	"Glag": "Glagolitic",
	"Goth": "Gothic",
	"Gran": "Grantha",
	"Grek": "Greek",
	"Gujr": "Gujarati",
	"Gong": "Gunjala_Gondi",
	"Guru": "Gurmukhi",
	"Hani": "Han",
	"Hang": "Hangul",
	"Rohg": "Hanifi_Rohingya",
	"Hano": "Hanunoo",
	"Hatr": "Hatran",
	"Hebr": "Hebrew",
	"Hira": "Hiragana",
	"Armi": "Imperial_Aramaic",
	"Zinh": "Inherited",
	"Qaai": "Inherited",
	"Phli": "Inscriptional_Pahlavi",
	"Prti": "Inscriptional_Parthian",
	"Java": "Javanese",
	"Kthi": "Kaithi",
	"Knda": "Kannada",
	"Kana": "Katakana",
	"Kali": "Kayah_Li",
	"Khar": "Kharoshthi",
	"Kits": "Khitan_Small_Script",
	"Khmr": "Khmer",
	"Khoj": "Khojki",
	"Sind": "Khudawadi",
	"Laoo": "Lao",
	"Latn": "Latin",
	"Lepc": "Lepcha",
	"Limb": "Limbu",
	"Lina": "Linear_A",
	"Linb": "Linear_B",
	"Lyci": "Lycian",
	"Lydi": "Lydian",
	"Mahj": "Mahajani",
	"Maka": "Makasar",
	"Mlym": "Malayalam",
	"Mand": "Mandaic",
	"Mani": "Manichaean",
	"Marc": "Marchen",
	"Gonm": "Masaram_Gondi",
	"Medf": "Medefaidrin",
	"Mtei": "Meetei_Mayek",
	"Mend": "Mende_Kikakui",
	"Merc": "Meroitic_Cursive",
	"Mero": "Meroitic_Hieroglyphs",
	"Plrd": "Miao",
	"Mong": "Mongolian",
	"Mroo": "Mro",
	"Mult": "Multani",
	"Mymr": "Myanmar",
	"Nbat": "Nabataean",
	"Nagm": "Nag_Mundari",
	"Nand": "Nandinagari",
	"Talu": "New_Tai_Lue",
	"Nkoo": "Nko",
	"Nshu": "Nushu",
	"Hmnp": "Nyiakeng_Puachue_Hmong",
	"Ogam": "Ogham",
	"Olck": "Ol_Chiki",
	"Hung": "Old_Hungarian",
	"Ital": "Old_Italic",
	"Narb": "Old_North_Arabian",
	"Perm": "Old_Permic",
	"Xpeo": "Old_Persian",
	"Sogo": "Old_Sogdian",
	"Sarb": "Old_South_Arabian",
	"Orkh": "Old_Turkic",
	"Ougr": "Old_Uyghur",
	"Orya": "Oriya",
	"Osge": "Osage",
	"Osma": "Osmanya",
	"Hmng": "Pahawh_Hmong",
	"Palm": "Palmyrene",
	"Pauc": "Pau_Cin_Hau",
	"Phag": "Phags_Pa",
	"Phnx": "Phoenician",
	"Phlp": "Psalter_Pahlavi",
	"Rjng": "Rejang",
	"Runr": "Runic",
	"Samr": "Samaritan",
	"Saur": "Saurashtra",
	"Shrd": "Sharada",
	"Shaw": "Shavian",
	"Sidd": "Siddham",
	"Sgnw": "SignWriting",
	"Sinh": "Sinhala",
	"Sogd": "Sogdian",
	"Sora": "Sora_Sompeng",
	"Soyo": "Soyombo",
	"Sund": "Sundanese",
	"Sylo": "Syloti_Nagri",
	"Syrc": "Syriac",
	"Tglg": "Tagalog",
	"Tagb": "Tagbanwa",
	"Tale": "Tai_Le",
	"Lana": "Tai_Tham",
	"Tavt": "Tai_Viet",
	"Takr": "Takri",
	"Taml": "Tamil",
	"Tnsa": "Tangsa",
	"Tang": "Tangut",
	"Telu": "Telugu",
	"Thaa": "Thaana",
	"Tibt": "Tibetan",
	"Tfng": "Tifinagh",
	"Tirh": "Tirhuta",
	"Ugar": "Ugaritic",
	"Vaii": "Vai",
	"Vith": "Vithkuqi",
	"Wcho": "Wancho",
	"Wara": "Warang_Citi",
	"Yezi": "Yezidi",
	"Yiii": "Yi",
	"Zanb": "Zanabazar_Square",
}

func isScript(name string) bool {
	_, ok := unicode.Scripts[name]
	return ok
}

// isScriptOrAlias also accepts the four-letter aliases.
func isScriptOrAlias(name string) bool {
	if long, ok := scriptAliases[name]; ok {
		name = long
	}
	return isScript(name)
}

var scriptsFolded = func() map[string]bool {
	m := make(map[string]bool, len(unicode.Scripts)+len(scriptAliases))
	for name := range unicode.Scripts {
		m[strings.ToLower(name)] = true
	}
	for alias := range scriptAliases {
		m[strings.ToLower(alias)] = true
	}
	return m
}()

// isScriptFold matches script names case-insensitively, as Java does.
func isScriptFold(name string) bool {
	return scriptsFolded[strings.ToLower(name)]
}

func isBinaryProperty(name string) bool {
	if _, ok := unicode.Properties[name]; ok {
		return true
	}
	return jsBinaryExtras.Has(name)
}

// isBlockName accepts any identifier-shaped block name; the standard
// library has no block table.
func isBlockName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

func isValidCategory(style PropertyStyle, name string) bool {
	switch style {
	case PropertiesJava:
		if isGeneralCategory(name) || javaClasses.Has(name) {
			return true
		}
		if rest, ok := strings.CutPrefix(name, "Is"); ok {
			return isGeneralCategory(rest) || isScriptFold(rest)
		}
		if rest, ok := strings.CutPrefix(name, "In"); ok {
			return isBlockName(rest)
		}
		return false
	case PropertiesPerl:
		name = strings.TrimPrefix(name, "Is")
		return isGeneralCategory(name) || isScriptOrAlias(name) || perlSpecials.Has(name)
	case PropertiesJavaScript:
		return (isGeneralCategory(name) && name != "L&") || isBinaryProperty(name)
	case PropertiesRE2:
		return name == "Any" || (shortCategories.Has(name) && name != "L&" && name != "LC") || isScript(name)
	}
	return false
}

var propertyNames = map[PropertyStyle]collections.Set[string]{
	PropertiesJava: collections.NewSet(
		"sc", "script", "blk", "block", "gc", "general_category",
		"Script", "Block", "General_Category",
	),
	PropertiesPerl: collections.NewSet(
		"sc", "script", "Script", "scx", "script_extensions", "Script_Extensions",
		"gc", "general_category", "General_Category",
	),
	PropertiesJavaScript: collections.NewSet(
		"General_Category", "gc", "Script", "sc", "Script_Extensions", "scx",
	),
}

func isValidPropertyName(style PropertyStyle, name string) bool {
	names, ok := propertyNames[style]
	return ok && names.Has(name)
}

func isValidPropertyValue(style PropertyStyle, name, value string) bool {
	switch strings.ToLower(name) {
	case "gc", "general_category":
		return isGeneralCategory(value)
	case "sc", "script", "scx", "script_extensions":
		if style == PropertiesJava {
			return isScriptFold(value)
		}
		return isScriptOrAlias(value)
	case "blk", "block":
		return isBlockName(value)
	}
	return false
}

var (
	characterNamesOnce sync.Once
	characterNames     map[string]rune
)

// LookupCharacterName resolves a Unicode character name case-insensitively.
func LookupCharacterName(name string) (rune, bool) {
	characterNamesOnce.Do(func() {
		characterNames = make(map[string]rune, 40000)
		for r := rune(0); r <= utf8.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && !strings.HasPrefix(n, "<") {
				characterNames[n] = r
			}
		}
	})
	r, ok := characterNames[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}
