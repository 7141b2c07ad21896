package tui

import "unicode/utf8"

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// editDigits is editRune restricted to numeric input (PINs, amounts keep
// their own validation; this just refuses letters) with a hard length cap.
func editDigits(text, key string, maxLen int) string {
	if key == "backspace" {
		return editRune(text, key)
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(text) < maxLen {
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderFormField renders one labeled form line with cursor and focus
// styling, shared by the sign-in, sign-up, transfer and PIN forms.
// Secret values are masked.
func renderFormField(label, value string, focused, secret bool) string {
	display := value
	if secret {
		display = ""
		for range value {
			display += "*"
		}
	}
	cursor := " "
	style := metaStyle
	if focused {
		cursor = ">"
		style = selectedStyle
		display += "█"
	}
	return cursor + " " + style.Render(label) + ": " + display
}
