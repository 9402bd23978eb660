package chunk

import "golang.org/x/exp/slices"

// ChildAllowedInForm always returns true: a FORM may contain a child of
// any chunk ID, including nested groups.
func ChildAllowedInForm(childID ID) bool {
	return true
}

// ChildAllowedInList reports whether childID may appear inside a LIST:
// only PROP and FORM children are legal.
func ChildAllowedInList(childID ID) bool {
	return childID == PROP || childID == FORM
}

// ChildAllowedInCat reports whether childID may appear inside a CAT:
// only FORM, LIST, and CAT children are legal.
func ChildAllowedInCat(childID ID) bool {
	return childID == FORM || childID == LIST || childID == CAT_
}

// ChildAllowed dispatches to the appropriate ChildAllowedInXxx predicate
// based on the enclosing group's ID. It panics if groupID is not one of
// the four structural IDs.
func ChildAllowed(groupID, childID ID) bool {
	switch groupID {
	case FORM:
		return ChildAllowedInForm(childID)
	case LIST:
		return ChildAllowedInList(childID)
	case CAT_:
		return ChildAllowedInCat(childID)
	case PROP:
		// A PROP's body contains only non-group chunks.
		return !IsGroupID(childID)
	default:
		panic("chunk: ChildAllowed called with a non-group ID")
	}
}

// PropsBeforeForms reports whether every PROP child of a LIST precedes
// every FORM child. A LIST that fails this check is still fully parsed,
// but the validator degrades its quality level.
func PropsBeforeForms(listChildren []*Chunk) bool {
	seenForm := false
	for _, c := range listChildren {
		switch c.ChunkID {
		case FORM:
			seenForm = true
		case PROP:
			if seenForm {
				return false
			}
		}
	}
	return true
}

// PropertyFor returns the nearest PROP chunk within list's children whose
// ContentsType matches form's ContentsType, or nil if none applies. It
// implements property inheritance: a FORM inherits the defaults declared
// by a PROP of the same contents type that appears earlier in the same
// LIST.
//
// list must be a KindGroup chunk with ChunkID == LIST; PropertyFor panics
// otherwise.
func PropertyFor(list *Chunk, form *Chunk) *Chunk {
	if list.Kind != KindGroup || list.ChunkID != LIST {
		panic("chunk: PropertyFor called on a non-LIST chunk")
	}

	formIndex := slices.IndexFunc(list.Children, func(c *Chunk) bool { return c == form })
	preceding := list.Children
	if formIndex >= 0 {
		preceding = list.Children[:formIndex]
	}

	var match *Chunk
	for _, c := range preceding {
		if c.ChunkID == PROP && c.ContentsType == form.ContentsType {
			match = c
		}
	}
	return match
}
