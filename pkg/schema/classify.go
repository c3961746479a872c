package schema

// Rule object keys.
const (
	KeyRequired      = "required"
	KeyDataType      = "dataType"
	KeyRegex         = "regex"
	KeyMin           = "min"
	KeyMax           = "max"
	KeyLength        = "length"
	KeyAllowedValues = "allowedValues"
)

// RuleKeys lists every key a Rule object may contain, in check order.
var RuleKeys = []string{KeyRequired, KeyDataType, KeyRegex, KeyMin, KeyMax, KeyLength, KeyAllowedValues}

// IsRuleKey reports whether key belongs to the Rule grammar.
func IsRuleKey(key string) bool {
	for _, k := range RuleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsRuleNode reports whether v is an object holding at least one rule key.
// Objects without rule keys are nested rule trees; anything else is neither.
func IsRuleNode(v any) bool {
	obj, ok := v.(*Object)
	if !ok || obj == nil {
		return false
	}
	for _, m := range obj.Members {
		if IsRuleKey(m.Key) {
			return true
		}
	}
	return false
}
