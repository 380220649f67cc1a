package pipeline

import (
	"strings"
	"time"
)

// inputToken is the literal token replaced by the selected input path when
// input formatting is enabled.
const inputToken = "$input$"

// applyInputFormatting replaces inputToken in template with input, unless
// enabled is false, in which case template is returned unmodified.
func applyInputFormatting(template, input string, enabled bool) string {
	if !enabled {
		return template
	}
	return strings.ReplaceAll(template, inputToken, input)
}

// strftimeDirectives maps a subset of strftime-style directives (the ones
// actually useful for naming files and directories from wall-clock time) to
// Go's reference-time layout fragments.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'B': "January",
	'b': "Jan",
	'A': "Monday",
	'a': "Mon",
	'p': "PM",
	'Z': "MST",
}

// applyDateTimeFormatting scans template for '%'-prefixed directives and
// replaces each with the corresponding rendering of now, unless enabled is
// false, in which case template is returned unmodified. Unknown directives
// are left as-is (including the leading '%').
func applyDateTimeFormatting(template string, now time.Time, enabled bool) string {
	if !enabled {
		return template
	}

	var builder strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			builder.WriteByte(template[i])
			continue
		}
		directive := template[i+1]
		if layout, ok := strftimeDirectives[directive]; ok {
			builder.WriteString(now.Format(layout))
			i++
			continue
		}
		if directive == '%' {
			builder.WriteByte('%')
			i++
			continue
		}
		builder.WriteByte(template[i])
	}
	return builder.String()
}
