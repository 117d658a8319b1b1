package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"

	"taskboard/internal/service"
)

// storedToken is the on-disk session: the oauth2 token plus the user it
// belongs to.
type storedToken struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	oauth2.Token
}

func (s *storedToken) user() *service.User {
	return &service.User{UID: s.UID, Email: s.Email}
}

// loadToken reads the persisted session. A missing file yields nil, nil.
func loadToken(path string) (*storedToken, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if stored.UID == "" || stored.RefreshToken == "" {
		return nil, errors.New("invalid token.json: missing user or refresh token")
	}
	return &stored, nil
}

// saveToken writes the session with mode 0600.
func saveToken(path string, user *service.User, tok *oauth2.Token) error {
	stored := storedToken{Token: *tok}
	if user != nil {
		stored.UID = user.UID
		stored.Email = user.Email
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
