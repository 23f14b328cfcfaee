// Package seed loads the initial account set used to repopulate the store
// on reset.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/socialnet/internal/common"
)

// User is a seed account. Password is plaintext and is hashed on insert.
type User struct {
	Name     string   `json:"name"`
	Surname  string   `json:"surname"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role,omitempty"`
	Friends  []string `json:"friends,omitempty"`
}

// Data is the parsed seed file.
type Data struct {
	Users []User `json:"users"`
}

// Source provides seed data. Load is called once per reset.
type Source interface {
	Load(ctx context.Context) (*Data, error)
}

// Parse decodes a seed document. Malformed JSON and a missing users list
// both yield common.ErrInvalidSeed.
func Parse(b []byte) (*Data, error) {
	var raw struct {
		Users *[]User `json:"users"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSeed, err)
	}
	if raw.Users == nil {
		return nil, fmt.Errorf("%w: missing users list", common.ErrInvalidSeed)
	}
	return &Data{Users: *raw.Users}, nil
}

// FileSource reads seed data from a JSON file on every Load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load(ctx context.Context) (*Data, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(b)
}

// StaticSource serves an in-memory copy of Data.
type StaticSource struct {
	data Data
}

func NewStaticSource(data Data) *StaticSource {
	return &StaticSource{data: data}
}

func (s *StaticSource) Load(ctx context.Context) (*Data, error) {
	users := make([]User, len(s.data.Users))
	copy(users, s.data.Users)
	return &Data{Users: users}, nil
}
