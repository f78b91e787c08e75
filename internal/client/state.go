package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ChurnRadar_AnalyticsProject/internal/models"

	"go.uber.org/zap"
)

// State is what churnctl remembers between runs: the bearer token and the
// last prediction payload. Writes are last-write-wins.
type State struct {
	Path             string                    `json:"-"`
	Token            string                    `json:"token,omitempty"`
	LatestPrediction *models.PredictionPayload `json:"latestPrediction,omitempty"`
}

type stateFile struct {
	Token            string          `json:"token"`
	LatestPrediction json.RawMessage `json:"latestPrediction"`
}

// DefaultStatePath is ~/.churnradar/state.json.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".churnradar", "state.json")
	}
	return filepath.Join(home, ".churnradar", "state.json")
}

// LoadState reads the state file. A missing or unreadable file yields an empty
// state; a malformed latestPrediction is dropped.
func LoadState(path string) *State {
	s := &State{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.L().Warn("LoadState(): cannot read state file", zap.String("path", path), zap.Error(err))
		}
		return s
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		zap.L().Warn("LoadState(): ignoring malformed state file", zap.String("path", path), zap.Error(err))
		return s
	}
	s.Token = f.Token

	if len(f.LatestPrediction) > 0 && string(f.LatestPrediction) != "null" {
		var p models.PredictionPayload
		if err := json.Unmarshal(f.LatestPrediction, &p); err != nil {
			zap.L().Debug("LoadState(): dropping malformed latestPrediction", zap.Error(err))
		} else {
			s.LatestPrediction = &p
		}
	}
	return s
}

// Save writes the state file, creating its directory.
func (s *State) Save() error {
	if s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return os.WriteFile(s.Path, data, 0o600)
}
