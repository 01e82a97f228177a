package usecases

import (
	"sync"

	"sangobot/clients"
	"sangobot/models"
)

// MockMisskeyAPI implements clients.MisskeyAPI for testing. It records every
// call so tests can assert on them after asynchronous sub-actions finish.
type MockMisskeyAPI struct {
	CreateNoteFunc   func(req models.CreateNoteRequest) error
	ShowUserFunc     func(userID string) (*models.UserRelation, error)
	CreateFollowFunc func(userID string) error
	DeleteFollowFunc func(userID string) error
	GetSelfIDFunc    func() (string, error)

	mutex         sync.Mutex
	CreatedNotes  []models.CreateNoteRequest
	FollowedIDs   []string
	UnfollowedIDs []string
}

func (m *MockMisskeyAPI) CreateNote(req models.CreateNoteRequest) error {
	m.mutex.Lock()
	m.CreatedNotes = append(m.CreatedNotes, req)
	m.mutex.Unlock()
	if m.CreateNoteFunc != nil {
		return m.CreateNoteFunc(req)
	}
	return nil
}

func (m *MockMisskeyAPI) ShowUser(userID string) (*models.UserRelation, error) {
	if m.ShowUserFunc != nil {
		return m.ShowUserFunc(userID)
	}
	return &models.UserRelation{}, nil
}

func (m *MockMisskeyAPI) CreateFollow(userID string) error {
	m.mutex.Lock()
	m.FollowedIDs = append(m.FollowedIDs, userID)
	m.mutex.Unlock()
	if m.CreateFollowFunc != nil {
		return m.CreateFollowFunc(userID)
	}
	return nil
}

func (m *MockMisskeyAPI) DeleteFollow(userID string) error {
	m.mutex.Lock()
	m.UnfollowedIDs = append(m.UnfollowedIDs, userID)
	m.mutex.Unlock()
	if m.DeleteFollowFunc != nil {
		return m.DeleteFollowFunc(userID)
	}
	return nil
}

func (m *MockMisskeyAPI) GetSelfID() (string, error) {
	if m.GetSelfIDFunc != nil {
		return m.GetSelfIDFunc()
	}
	return "self", nil
}

// Notes returns a snapshot of the recorded note requests.
func (m *MockMisskeyAPI) Notes() []models.CreateNoteRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	notes := make([]models.CreateNoteRequest, len(m.CreatedNotes))
	copy(notes, m.CreatedNotes)
	return notes
}

// Unfollowed returns a snapshot of the recorded unfollow calls.
func (m *MockMisskeyAPI) Unfollowed() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	ids := make([]string, len(m.UnfollowedIDs))
	copy(ids, m.UnfollowedIDs)
	return ids
}

// MockSpeedTester implements clients.SpeedTester for testing.
type MockSpeedTester struct {
	MeasureFunc func() (*clients.SpeedResult, error)
}

func (m *MockSpeedTester) Measure() (*clients.SpeedResult, error) {
	if m.MeasureFunc != nil {
		return m.MeasureFunc()
	}
	return &clients.SpeedResult{}, nil
}
