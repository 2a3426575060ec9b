package navdata

import (
	"path/filepath"
	"regexp"
	"strings"
)

// productNameRe matches the trailing run of CJK, latin, digit and
// parenthesis characters of a filename stem. NAV exports are commonly
// named "<institution>-<product>.xlsx" or carry a numeric prefix, and the
// product identifier is the trailing token.
var productNameRe = regexp.MustCompile(`[\p{Han}A-Za-z0-9（）()]+$`)

// ProductNameFromFile derives the product name from a workbook filename.
// Falls back to the whole stem when no trailing token matches.
func ProductNameFromFile(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if m := productNameRe.FindString(stem); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(stem)
}
