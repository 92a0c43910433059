package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/unitechhub/examhub/internal/model"
)

// SessionRef pins the active practice session between invocations so a
// killed client can resume where it left off. The paper travels with it:
// the server never re-serves question texts, so resume renders from this
// copy while the server supplies the remaining time and saved answers.
type SessionRef struct {
	ID              uuid.UUID             `json:"id"`
	DurationSeconds int                   `json:"duration_seconds"`
	Questions       []model.PaperQuestion `json:"questions"`
}

// Paper rebuilds the start response the exam runner needs.
func (r *SessionRef) Paper() *model.StartPracticeResponse {
	return &model.StartPracticeResponse{
		SessionID:       r.ID,
		DurationSeconds: r.DurationSeconds,
		Questions:       r.Questions,
	}
}

// State is the client's local persistence: the auth token, the active
// session (if any) and the last submission result.
type State struct {
	Token          string                `json:"token,omitempty"`
	CurrentSession *SessionRef           `json:"current_session,omitempty"`
	LastResult     *model.PracticeResult `json:"last_result,omitempty"`
}

// DefaultStatePath resolves the state file under the user config dir.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "examhub", "state.json"), nil
}

// LoadState reads the state file. A missing file yields an empty state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file should not brick the client.
		return &State{}, nil
	}
	return &st, nil
}

// Save writes the state file, creating parent directories as needed.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearSession drops the active session reference.
func (s *State) ClearSession() {
	s.CurrentSession = nil
}
