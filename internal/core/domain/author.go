package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Column widths of the author table, in bytes.
const (
	ActivationTokenMaxLen = 32
	AvatarURLMaxLen       = 255
	EmailMaxLen           = 128
	PasswordHashMaxLen    = 97
	UsernameMaxLen        = 32
)

// Author is one row of the author table. Fields are only reachable through
// setters, so a constructed Author always holds validated values.
type Author struct {
	id              uuid.UUID
	activationToken *string
	avatarURL       string
	email           string
	passwordHash    string
	username        string
}

// NewAuthor builds a fully populated Author. The id accepts any form
// NormalizeUUID does; a nil activationToken means the author has none.
// The first invalid field aborts construction and its error is returned as is.
func NewAuthor(id any, activationToken *string, avatarURL, email, passwordHash, username string) (*Author, error) {
	a := &Author{}

	if err := a.SetID(id); err != nil {
		return nil, err
	}

	if err := a.SetActivationToken(activationToken); err != nil {
		return nil, err
	}

	if err := a.SetAvatarURL(avatarURL); err != nil {
		return nil, err
	}

	if err := a.SetEmail(email); err != nil {
		return nil, err
	}

	if err := a.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}

	if err := a.SetUsername(username); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Author) ID() uuid.UUID {
	return a.id
}

// IDBytes is the 16 byte form the id is stored as.
func (a *Author) IDBytes() []byte {
	b := a.id
	return b[:]
}

func (a *Author) SetID(v any) error {
	id, err := NormalizeUUID(v)

	if err != nil {
		return err
	}

	a.id = id
	return nil
}

// ActivationToken returns nil when the author has no pending activation.
func (a *Author) ActivationToken() *string {
	if a.activationToken == nil {
		return nil
	}

	token := *a.activationToken
	return &token
}

func (a *Author) SetActivationToken(token *string) error {
	if token == nil {
		a.activationToken = nil
		return nil
	}

	value := Sanitize(*token)

	if err := checkField("activation token", value, ActivationTokenMaxLen); err != nil {
		return err
	}

	a.activationToken = &value
	return nil
}

func (a *Author) AvatarURL() string {
	return a.avatarURL
}

func (a *Author) SetAvatarURL(url string) error {
	value := Sanitize(url)

	if err := checkField("avatar url", value, AvatarURLMaxLen); err != nil {
		return err
	}

	a.avatarURL = value
	return nil
}

func (a *Author) Email() string {
	return a.email
}

func (a *Author) SetEmail(email string) error {
	value := Sanitize(email)

	if err := checkField("email", value, EmailMaxLen); err != nil {
		return err
	}

	a.email = value
	return nil
}

func (a *Author) PasswordHash() string {
	return a.passwordHash
}

func (a *Author) SetPasswordHash(hash string) error {
	value := Sanitize(hash)

	if err := checkField("password hash", value, PasswordHashMaxLen); err != nil {
		return err
	}

	a.passwordHash = value
	return nil
}

func (a *Author) Username() string {
	return a.username
}

func (a *Author) SetUsername(username string) error {
	value := Sanitize(username)

	if err := checkField("username", value, UsernameMaxLen); err != nil {
		return err
	}

	a.username = value
	return nil
}

type serializeOptions struct {
	passwordHash bool
}

type SerializeOption func(*serializeOptions)

// WithPasswordHash adds authorHash to the serialized form.
func WithPasswordHash() SerializeOption {
	return func(o *serializeOptions) {
		o.passwordHash = true
	}
}

// Serialize returns the flat field mapping handed to transport layers. The
// password hash is left out unless WithPasswordHash is given.
func (a *Author) Serialize(opts ...SerializeOption) map[string]any {
	var o serializeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var token any
	if a.activationToken != nil {
		token = *a.activationToken
	}

	fields := map[string]any{
		"authorId":              a.id.String(),
		"authorActivationToken": token,
		"authorAvatarUrl":       a.avatarURL,
		"authorEmail":           a.email,
		"authorUsername":        a.username,
	}

	if o.passwordHash {
		fields["authorHash"] = a.passwordHash
	}

	return fields
}

func (a *Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Serialize())
}
