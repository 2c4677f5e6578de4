package model

// Document is the root object held by the durable store. The in-memory
// directory index and this document must be equal after every completed
// write and immediately after load.
type Document struct {
	Users    []User        `json:"users"`
	Messages []ChatMessage `json:"messages"`
}

// EmptyDocument returns a document with non-nil collections.
func EmptyDocument() *Document {
	return &Document{
		Users:    []User{},
		Messages: []ChatMessage{},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Users:    make([]User, 0, len(d.Users)),
		Messages: make([]ChatMessage, len(d.Messages)),
	}
	for _, u := range d.Users {
		out.Users = append(out.Users, u.Clone())
	}
	copy(out.Messages, d.Messages)
	return out
}
