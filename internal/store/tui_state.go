package store

import (
	"context"
	"encoding/json"
)

const tuiStateKey = "tui_state"

// TUIState is small UI state restored on the next launch. It is best effort: a missing or
// corrupt value loads as the zero state.
type TUIState struct {
	Version int `json:"version"`
	// DragDisabled is true after the user switched dragging off.
	DragDisabled bool `json:"dragDisabled,omitempty"`
	// SelectedID is the entry under the cursor.
	SelectedID string `json:"selectedId,omitempty"`
}

func (s Store) LoadTUIState(ctx context.Context) (*TUIState, error) {
	raw, ok, err := s.metaGet(ctx, tuiStateKey)
	if err != nil {
		return nil, err
	}
	st := &TUIState{Version: 1}
	if !ok {
		return st, nil
	}
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return st, nil
}

func (s Store) SaveTUIState(ctx context.Context, st *TUIState) error {
	if st == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.metaSet(ctx, tuiStateKey, string(b))
}
