package beacon_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/mockserver"
)

func startMock(t *testing.T, opts mockserver.Options) (*mockserver.Server, *beacon.Client) {
	t.Helper()
	mock := mockserver.New(opts)
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	client, err := beacon.New(beacon.HostedConfig("api-key", "secret", srv.URL+mock.Prefix()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return mock, client
}

func TestAgainstMockServer(t *testing.T) {
	ctx := context.Background()
	mock, client := startMock(t, mockserver.Options{APIKey: "api-key", SecretKey: "secret"})
	mock.Connect("alice", "lobby")
	mock.Connect("bob", "lobby", "ops")

	count, err := client.OnlineUserCount(ctx)
	if err != nil || count != 2 {
		t.Fatalf("OnlineUserCount() = %d, %v", count, err)
	}

	lobby, _ := client.Channel("lobby")
	users, err := lobby.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(users) != 2 || users[0].Username() != "alice" || users[1].Username() != "bob" {
		t.Fatalf("users = %v", users)
	}

	if err := lobby.Send(ctx, map[string]string{"message": "hi"}); err != nil {
		t.Fatalf("channel Send() error = %v", err)
	}
	if err := users[1].SendRaw(ctx, `{"direct":true}`); err != nil {
		t.Fatalf("user SendRaw() error = %v", err)
	}
	messages := mock.Messages()
	if len(messages) != 2 {
		t.Fatalf("messages = %v", messages)
	}
	if messages[0].Target != "channel" || messages[0].Name != "lobby" || messages[0].Body != `{"message":"hi"}` {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].Target != "user" || messages[1].Name != "bob" {
		t.Errorf("second message = %+v", messages[1])
	}

	online, err := users[0].IsOnline(ctx)
	if err != nil || !online {
		t.Fatalf("IsOnline() = %v, %v", online, err)
	}
	if err := users[0].ForceSignOut(ctx); err != nil {
		t.Fatalf("ForceSignOut() error = %v", err)
	}
	online, err = users[0].IsOnline(ctx)
	if err != nil || online {
		t.Fatalf("IsOnline() after sign out = %v, %v", online, err)
	}
	if err := users[0].ForceSignOut(ctx); !beacon.IsNotFound(err) {
		t.Errorf("second ForceSignOut() error = %v, want not found", err)
	}
}

func TestAgainstMockServer_WrongSecret(t *testing.T) {
	_, client := startMock(t, mockserver.Options{APIKey: "api-key", SecretKey: "other"})

	_, err := client.OnlineUserCount(context.Background())
	se := beacon.StructuredErrorFromError(err)
	if se.Code != beacon.ErrCodeUnauthorized {
		t.Errorf("code = %q, want unauthorized (err %v)", se.Code, err)
	}
}

func TestAgainstMockServer_EscapedNames(t *testing.T) {
	mock, client := startMock(t, mockserver.Options{})
	mock.Connect("a b", "room one")

	room, _ := client.Channel("room one")
	users, err := room.Users(context.Background())
	if err != nil || len(users) != 1 || users[0].Username() != "a b" {
		t.Fatalf("Users() = %v, %v", users, err)
	}
	online, err := users[0].IsOnline(context.Background())
	if err != nil || !online {
		t.Errorf("IsOnline() = %v, %v", online, err)
	}

	mock.Connect("a/b", "x/y")
	slashed, _ := client.User("a/b")
	online, err = slashed.IsOnline(context.Background())
	if err != nil || !online {
		t.Errorf("IsOnline(a/b) = %v, %v", online, err)
	}
	xy, _ := client.Channel("x/y")
	users, err = xy.Users(context.Background())
	if err != nil || len(users) != 1 || users[0].Username() != "a/b" {
		t.Fatalf("Users(x/y) = %v, %v", users, err)
	}
	if err := xy.SendRaw(context.Background(), `{"n":1}`); err != nil {
		t.Fatalf("SendRaw(x/y) error = %v", err)
	}
	messages := mock.Messages()
	if len(messages) != 1 || messages[0].Name != "x/y" {
		t.Errorf("messages = %+v", messages)
	}
}
