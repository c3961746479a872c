package checks

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// LocaleAny accepts any E.164-shaped number.
const LocaleAny = "any"

var anyMobile = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

// mobilePlans maps ISO 3166 regions to their mobile numbering plans.
var mobilePlans = map[string]*regexp.Regexp{
	"IN": regexp.MustCompile(`^(\+?91|0)?[6789]\d{9}$`),
	"US": regexp.MustCompile(`^(\+?1)?[2-9]\d{2}[2-9](?:[02-9]\d|1[02-9])\d{4}$`),
	"CA": regexp.MustCompile(`^(\+?1)?[2-9]\d{2}[2-9](?:[02-9]\d|1[02-9])\d{4}$`),
	"GB": regexp.MustCompile(`^(\+?44|0)7\d{9}$`),
	"DE": regexp.MustCompile(`^((\+49|0)1)(5[0-25-9]\d|6([23]|0\d?)|7([0-57-9]|6\d))\d{7,9}$`),
	"FR": regexp.MustCompile(`^(\+?33|0)[67]\d{8}$`),
	"ES": regexp.MustCompile(`^(\+?34)?[67]\d{8}$`),
	"IT": regexp.MustCompile(`^(\+?39)?\s?3\d{2} ?\d{6,7}$`),
	"NL": regexp.MustCompile(`^(((\+|00)?31\(0\))|((\+|00)?31)|0)6{1}\d{8}$`),
	"AU": regexp.MustCompile(`^(\+?61|0)4\d{8}$`),
	"BR": regexp.MustCompile(`^(\+?55)?\(?[1-9]{2}\)? ?9?\d{4}-?\d{4}$`),
	"CN": regexp.MustCompile(`^((\+|00)86)?(1[3-9]|9[28])\d{9}$`),
	"JP": regexp.MustCompile(`^(\+81[ \-]?(\(0\))?|0)[6789]0[ \-]?\d{4}[ \-]?\d{4}$`),
	"RU": regexp.MustCompile(`^(\+?7|8)?9\d{9}$`),
	"SG": regexp.MustCompile(`^(\+65)?[3689]\d{7}$`),
	"AE": regexp.MustCompile(`^((\+?971)|0)?5[024568]\d{7}$`),
}

// mobilePattern resolves a locale such as "en-IN" to its region's plan.
// Unknown or unparsable locales fall back to the E.164 shape.
func mobilePattern(locale string) *regexp.Regexp {
	if locale == "" || strings.EqualFold(locale, LocaleAny) {
		return anyMobile
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return anyMobile
	}
	region, conf := tag.Region()
	if conf == language.No {
		return anyMobile
	}
	if re, ok := mobilePlans[region.String()]; ok {
		return re
	}
	return anyMobile
}
