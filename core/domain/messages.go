// ABOUTME: Message protocol types exchanged between extension contexts and the coordinator
// ABOUTME: Every reply is a closed generic shape; raw errors never cross this boundary

package domain

// MessageType identifies a request kind in the cross-context protocol.
type MessageType string

// Message kinds understood by the background coordinator.
const (
	MessageCreateViaAPI   MessageType = "createViaApi"
	MessageCheckDuplicate MessageType = "checkDuplicate"
	MessageIsRecipePage   MessageType = "isRecipePage"
	MessageOpenPopup      MessageType = "openPopup"
)

// Message is a request from a content or settings context.
type Message struct {
	Type MessageType `json:"type"`
	URL  string      `json:"url,omitempty"`
}

// CreateReply is the coordinator's answer to a createViaApi request.
// Error is always one of a small set of fixed generic strings; it never
// contains upstream exception text.
type CreateReply struct {
	Success   bool             `json:"success"`
	Error     string           `json:"error,omitempty"`
	Duplicate bool             `json:"duplicate,omitempty"`
	Recipe    *RecipeReference `json:"recipe,omitempty"`
}

// DuplicateReply is the coordinator's answer to a checkDuplicate request.
type DuplicateReply struct {
	Exists bool `json:"exists"`
}

// DetectReply is the coordinator's answer to an isRecipePage request.
type DetectReply struct {
	IsRecipe bool `json:"isRecipe"`
}
