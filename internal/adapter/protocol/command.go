// Package protocol defines the wire vocabulary shared by the shop server and
// its clients: a closed set of commands, an entity discriminator, and the
// Envelope message that carries every request and response.
package protocol

import "strings"

type Command string

const (
	// Requests.
	CmdSearchByID     Command = "SEARCH_BY_ID"
	CmdSearchByName   Command = "SEARCH_BY_NAME"
	CmdSearchByType   Command = "SEARCH_BY_TYPE"
	CmdSearchAll      Command = "SEARCH_ALL"
	CmdSearchByIDEdit Command = "SEARCH_BY_ID_EDIT"
	CmdSave           Command = "SAVE"
	CmdDelete         Command = "DELETE"
	CmdPurchase       Command = "PURCHASE"
	CmdQuit           Command = "QUIT"

	// Responses.
	CmdComplete         Command = "COMPLETE"
	CmdFailed           Command = "FAILED"
	CmdDisplay          Command = "DISPLAY"
	CmdDisplayEdit      Command = "DISPLAY_EDIT"
	CmdDisplayItem      Command = "DISPLAY_ITEM"
	CmdPurchaseComplete Command = "PURCHASE_COMPLETE"
	CmdPurchaseFailed   Command = "PURCHASE_FAILED"

	// CmdUnknown marks a wire string outside the vocabulary. Requests
	// decoding to it are dropped without a response.
	CmdUnknown Command = ""
)

// ParseCommand maps a wire string onto the closed command set, exactly once
// at the protocol boundary. Any string carrying the SEARCH marker resolves to
// its qualified variant; everything unrecognized is CmdUnknown.
func ParseCommand(s string) Command {
	if strings.Contains(s, cmdSearchMarker) {
		switch {
		case strings.Contains(s, "EDIT"):
			return CmdSearchByIDEdit
		case strings.Contains(s, "BY_ID"):
			return CmdSearchByID
		case strings.Contains(s, "BY_NAME"):
			return CmdSearchByName
		case strings.Contains(s, "BY_TYPE"):
			return CmdSearchByType
		case strings.Contains(s, "ALL"):
			return CmdSearchAll
		default:
			return CmdSearchAll
		}
	}
	switch Command(s) {
	case CmdSave, CmdDelete, CmdPurchase, CmdQuit,
		CmdComplete, CmdFailed, CmdDisplay, CmdDisplayEdit, CmdDisplayItem,
		CmdPurchaseComplete, CmdPurchaseFailed:
		return Command(s)
	}
	return CmdUnknown
}

const cmdSearchMarker = "SEARCH"

// IsSearch reports whether c is one of the search variants.
func (c Command) IsSearch() bool {
	switch c {
	case CmdSearchByID, CmdSearchByName, CmdSearchByType, CmdSearchAll, CmdSearchByIDEdit:
		return true
	}
	return false
}

type EntityType string

const (
	EntityCustomer EntityType = "CUSTOMER"
	EntityItem     EntityType = "ITEM"
	EntityOrder    EntityType = "ORDER"
)
