package beacon

import (
	"context"
	"net/http"
)

// User is a handle for one named user.
type User struct {
	deps
	username string
}

// Username returns the user's name.
func (u *User) Username() string { return u.username }

// IsOnline reports whether the user is connected. The service answers 200 for
// online and 404 for offline; any other status is returned as an error.
func (u *User) IsOnline(ctx context.Context) (bool, error) {
	req, err := u.builder.IsUserOnlineRequest(u.username)
	if err != nil {
		return false, err
	}
	resp, err := u.roundTrip(ctx, req, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

// ForceSignOut disconnects the user.
func (u *User) ForceSignOut(ctx context.Context) error {
	req, err := u.builder.ForceUserSignOutRequest(u.username)
	if err != nil {
		return err
	}
	_, err = u.roundTrip(ctx, req)
	return err
}

// Send serializes message and delivers it to the user.
func (u *User) Send(ctx context.Context, message any) error {
	body, err := u.encode(message)
	if err != nil {
		return err
	}
	return u.SendRaw(ctx, body)
}

// SendRaw delivers an already serialized JSON message.
func (u *User) SendRaw(ctx context.Context, body string) error {
	req, err := u.builder.SendMessageToUserRequest(u.username, body)
	if err != nil {
		return err
	}
	_, err = u.roundTrip(ctx, req)
	return err
}
