package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YannKr/studyportal/internal/model"
)

// ExportEnvelope is the self-describing shape produced by Export and
// consumed by Import.
type ExportEnvelope struct {
	UserData   *model.ContentTree `json:"user_data"`
	ExportDate time.Time          `json:"export_date"`
}

// Export serializes the account's full tree with an export timestamp.
func (s *Store) Export(account string) ([]byte, error) {
	var out []byte
	var err error
	s.Read(account, func(tree *model.ContentTree) {
		out, err = json.MarshalIndent(ExportEnvelope{
			UserData:   tree,
			ExportDate: time.Now().UTC(),
		}, "", "  ")
	})
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// importPayload decodes user_data with per-key granularity so only the keys
// actually present in the payload replace live state.
type importPayload struct {
	UserData map[string]json.RawMessage `json:"user_data"`
}

// Import merges an exported payload into the live tree. The merge is a
// shallow replace-by-key: a top-level key present in the payload replaces
// the live value wholesale (importing subjects replaces the entire subject
// mapping), a key absent from the payload is left untouched. Any parse or
// shape error leaves the live tree completely unmodified.
func (s *Store) Import(account string, raw []byte) error {
	var payload importPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if payload.UserData == nil {
		return fmt.Errorf("%w: missing user_data", ErrInvalidImport)
	}

	// Decode every present key up front; nothing is applied until all of
	// them parse.
	var (
		subjects  map[string]*model.Subject
		sessions  []model.SessionEvent
		totalTime float64
		lastLogin time.Time
	)
	for key, val := range payload.UserData {
		var err error
		switch key {
		case "subjects":
			err = json.Unmarshal(val, &subjects)
			if err == nil {
				// a null subject value decodes to a nil pointer that would
				// panic every later traversal of the tree
				for name, sub := range subjects {
					if sub == nil {
						err = fmt.Errorf("subject %q is null", name)
						break
					}
				}
			}
		case "study_sessions":
			err = json.Unmarshal(val, &sessions)
		case "total_study_time":
			err = json.Unmarshal(val, &totalTime)
		case "last_login":
			err = json.Unmarshal(val, &lastLogin)
		default:
			// unknown keys are ignored, matching the replace-by-key semantics
		}
		if err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrInvalidImport, key, err)
		}
	}

	return s.Mutate(account, func(tree *model.ContentTree) error {
		for key := range payload.UserData {
			switch key {
			case "subjects":
				if subjects == nil {
					subjects = make(map[string]*model.Subject)
				}
				tree.Subjects = subjects
			case "study_sessions":
				tree.StudySessions = sessions
			case "total_study_time":
				tree.TotalStudyTime = totalTime
			case "last_login":
				tree.LastLogin = lastLogin
			}
		}
		return nil
	})
}
