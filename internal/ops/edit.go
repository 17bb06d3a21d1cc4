package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

// EditAction selects the kind of text change.
type EditAction string

const (
	EditInsert  EditAction = "insert"  // insert Text at Start
	EditDelete  EditAction = "delete"  // remove [Start, End)
	EditReplace EditAction = "replace" // replace [Start, End) with Text
	EditSet     EditAction = "set"     // replace everything with Text, dropping styles
)

// EditInput contains parameters for the Edit operation.
// Offsets count characters, not bytes.
type EditInput struct {
	SessionID string
	Action    EditAction
	Start     int
	End       int
	Text      string
}

// Edit changes the text of an open session. Styles over removed text are
// dropped and styles after the change move with the text.
func Edit(ctx context.Context, np *Notepad, input EditInput) (*DocumentView, error) {
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch input.Action {
	case EditInsert:
		err = s.Doc.Insert(input.Start, input.Text)
	case EditDelete:
		err = s.Doc.Delete(document.NewRange(input.Start, input.End))
	case EditReplace:
		err = s.Doc.Replace(document.NewRange(input.Start, input.End), input.Text)
	case EditSet:
		err = s.Doc.SetText(input.Text)
	default:
		err = errors.NewInvalidRequest(fmt.Sprintf("action must be one of: %s, %s, %s, %s",
			EditInsert, EditDelete, EditReplace, EditSet))
	}
	if err != nil {
		return nil, err
	}
	return s.view(), nil
}
