// Package books tracks canonical Bible book codes. The converter only
// needs existence bookkeeping: whether a 3-letter code is one it has
// heard of, so unknown codes can be flagged while still being converted.
package books

// codes is the set of book codes recognized by the USFM/USX family:
// protocanon, deuterocanon, and peripheral divisions.
var codes = map[string]bool{
	// Old Testament
	"GEN": true, "EXO": true, "LEV": true, "NUM": true, "DEU": true,
	"JOS": true, "JDG": true, "RUT": true, "1SA": true, "2SA": true,
	"1KI": true, "2KI": true, "1CH": true, "2CH": true, "EZR": true,
	"NEH": true, "EST": true, "JOB": true, "PSA": true, "PRO": true,
	"ECC": true, "SNG": true, "ISA": true, "JER": true, "LAM": true,
	"EZK": true, "DAN": true, "HOS": true, "JOL": true, "AMO": true,
	"OBA": true, "JON": true, "MIC": true, "NAM": true, "HAB": true,
	"ZEP": true, "HAG": true, "ZEC": true, "MAL": true,
	// New Testament
	"MAT": true, "MRK": true, "LUK": true, "JHN": true, "ACT": true,
	"ROM": true, "1CO": true, "2CO": true, "GAL": true, "EPH": true,
	"PHP": true, "COL": true, "1TH": true, "2TH": true, "1TI": true,
	"2TI": true, "TIT": true, "PHM": true, "HEB": true, "JAS": true,
	"1PE": true, "2PE": true, "1JN": true, "2JN": true, "3JN": true,
	"JUD": true, "REV": true,
	// Deuterocanon and additions
	"TOB": true, "JDT": true, "ESG": true, "WIS": true, "SIR": true,
	"BAR": true, "LJE": true, "S3Y": true, "SUS": true, "BEL": true,
	"1MA": true, "2MA": true, "3MA": true, "4MA": true, "1ES": true,
	"2ES": true, "MAN": true, "PS2": true, "ODA": true, "PSS": true,
	// Peripherals
	"FRT": true, "BAK": true, "OTH": true, "INT": true, "CNC": true,
	"GLO": true, "TDX": true, "NDX": true,
	"XXA": true, "XXB": true, "XXC": true, "XXD": true,
	"XXE": true, "XXF": true, "XXG": true,
}

// IsKnown reports whether code is a recognized book code.
func IsKnown(code string) bool {
	return codes[code]
}
