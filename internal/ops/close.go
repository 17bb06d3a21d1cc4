package ops

import "context"

// CloseInput contains parameters for the Close operation.
type CloseInput struct {
	SessionID string
}

// CloseOutput contains the result of the Close operation.
type CloseOutput struct {
	Closed    bool   `json:"closed"`
	SessionID string `json:"session_id"`
}

// Close discards a session. Unsaved changes are lost.
func Close(ctx context.Context, np *Notepad, input CloseInput) (*CloseOutput, error) {
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	np.mu.Lock()
	delete(np.sessions, s.ID)
	np.mu.Unlock()

	np.log.Debug("session closed", "session", s.ID, "name", s.Entry.Name)
	return &CloseOutput{
		Closed:    true,
		SessionID: s.ID,
	}, nil
}
