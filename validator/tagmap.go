package validator

// tagMap covers the tags used by config structs in this module.
var tagMap = map[string]string{
	"omitempty":     "optional",
	"hostname_port": "invalid_address",
	"ip":            "invalid_ip",
	"gte":           "too_small_or_equal",
	"oneof":         "invalid_choice",
	"specialchars":  "invalid_special_chars",
	"digitset":      "only_numbers_allowed",
}

// CodeFor returns the stable code for a validation tag.
func CodeFor(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
