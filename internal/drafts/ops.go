package drafts

import (
	"errors"

	"github.com/mailcraft/mailcraft/internal/document"
)

var ErrUnknownOp = errors.New("unknown draft operation")

// Operation names accepted by Op.Apply.
const (
	OpSetName       = "setName"
	OpSetLayout     = "setLayout"
	OpSetContent    = "setContent"
	OpSetStyle      = "setStyle"
	OpSetBackground = "setBackground"
	OpMoveSection   = "moveSection"
)

// Op is a single edit sent by the editor.
type Op struct {
	Op       string `json:"op"`
	Section  string `json:"section,omitempty"`
	Property string `json:"property,omitempty"`
	Value    string `json:"value,omitempty"`
	From     *int   `json:"from,omitempty"`
	To       *int   `json:"to,omitempty"`
}

// Apply returns the edited document; d itself is not modified.
func (op Op) Apply(d document.Document) (document.Document, error) {
	switch op.Op {
	case OpSetName:
		return d.WithName(op.Value), nil
	case OpSetLayout:
		return d.WithLayout(op.Value), nil
	case OpSetBackground:
		return d.WithBackground(op.Value), nil
	case OpSetContent:
		s, err := document.ParseSection(op.Section)
		if err != nil {
			return d, err
		}
		return d.WithContent(s, op.Value)
	case OpSetStyle:
		s, err := document.ParseSection(op.Section)
		if err != nil {
			return d, err
		}
		p, err := document.ParseProperty(op.Property)
		if err != nil {
			return d, err
		}
		return d.WithStyle(s, p, op.Value)
	case OpMoveSection:
		if op.From == nil || op.To == nil {
			return d, &document.ValidationError{Field: "moveSection", Err: document.ErrIndexOutOfRange, Reason: "from and to are required"}
		}
		return d.MoveSection(*op.From, *op.To)
	}
	return d, &document.ValidationError{Field: "op", Err: ErrUnknownOp, Reason: op.Op}
}
