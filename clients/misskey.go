package clients

import (
	"fmt"

	"sangobot/models"

	"resty.dev/v3"
)

// MisskeyAPI defines the outbound REST operations the bot performs. Errors
// surface as a single wrapped failure; retries, if any, are the caller's
// responsibility.
type MisskeyAPI interface {
	CreateNote(req models.CreateNoteRequest) error
	ShowUser(userID string) (*models.UserRelation, error)
	CreateFollow(userID string) error
	DeleteFollow(userID string) error
	GetSelfID() (string, error)
}

// MisskeyClient talks to the instance's REST API over authenticated HTTPS.
// It is stateless per call and safe for concurrent use.
type MisskeyClient struct {
	http *resty.Client
}

func NewMisskeyClient(host, token string) *MisskeyClient {
	client := resty.New().
		SetBaseURL("https://" + host).
		SetAuthToken(token)
	return &MisskeyClient{http: client}
}

func (c *MisskeyClient) post(endpoint string, body any, out any) error {
	req := c.http.R().SetBody(body)
	if out != nil {
		req.SetResult(out)
	}
	res, err := req.Post(endpoint)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	if res.IsError() {
		return fmt.Errorf("request to %s failed: %s", endpoint, res.Status())
	}
	return nil
}

func (c *MisskeyClient) CreateNote(req models.CreateNoteRequest) error {
	return c.post("/api/notes/create", req, nil)
}

func (c *MisskeyClient) ShowUser(userID string) (*models.UserRelation, error) {
	var relation models.UserRelation
	if err := c.post("/api/users/show", map[string]string{"userId": userID}, &relation); err != nil {
		return nil, err
	}
	return &relation, nil
}

func (c *MisskeyClient) CreateFollow(userID string) error {
	return c.post("/api/following/create", map[string]string{"userId": userID}, nil)
}

func (c *MisskeyClient) DeleteFollow(userID string) error {
	return c.post("/api/following/delete", map[string]string{"userId": userID}, nil)
}

func (c *MisskeyClient) GetSelfID() (string, error) {
	var me models.User
	if err := c.post("/api/i", map[string]string{}, &me); err != nil {
		return "", fmt.Errorf("failed to authorize: %w", err)
	}
	return me.ID, nil
}
