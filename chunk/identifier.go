package chunk

// IsLegalFormType reports whether id is a legal form type: four printable
// bytes, the first of which is neither a digit nor a space, with
// ASCII-space padding (0x20) permitted only as a contiguous run at the
// tail. It additionally rejects the four reserved
// structural IDs, since a FORM or PROP may never claim to be its own
// container type.
func IsLegalFormType(id ID) bool {
	if IsGroupID(id) {
		return false
	}

	first := id[0]
	if first == ' ' || (first >= '0' && first <= '9') || !isPrintable(first) {
		return false
	}

	seenSpace := false
	for _, b := range id {
		if b == ' ' {
			seenSpace = true
			continue
		}
		if seenSpace {
			// A non-space byte after a space: padding wasn't confined to
			// the tail.
			return false
		}
		if !isPrintable(b) {
			return false
		}
	}
	return true
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}
