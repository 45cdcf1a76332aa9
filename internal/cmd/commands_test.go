package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpush/beaconpush-go/internal/config"
	"github.com/beaconpush/beaconpush-go/internal/mockserver"
)

func TestCount(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice")
	mock.Connect("bob")

	res := run(t, "", "count")
	require.NoError(t, res.err)
	assert.Equal(t, "2\n", res.stdout)

	res = run(t, "", "count", "--json", "--compact-json")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"online":2}`, res.stdout)

	res = run(t, "", "count", "--jq", ".online")
	require.NoError(t, res.err)
	assert.Equal(t, "2", strings.TrimSpace(res.stdout))

	res = run(t, "", "count", "-o", "yaml")
	require.NoError(t, res.err)
	assert.Equal(t, "online: 2\n", res.stdout)
}

func TestCount_WrongSecret(t *testing.T) {
	setupMock(t)
	t.Setenv(config.EnvSecretKey, "wrong")

	res := run(t, "", "count")
	require.Error(t, res.err)
	assert.Equal(t, exitAuth, ExitCode(res.err))
	assert.Contains(t, res.stderr, "HTTP 401")
	assert.Contains(t, res.stderr, "invalid secret key")
}

func TestCount_JSONError(t *testing.T) {
	setupMock(t)
	t.Setenv(config.EnvSecretKey, "wrong")

	res := run(t, "", "count", "-o", "json")
	require.Error(t, res.err)

	var structured map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stderr), &structured))
	assert.Equal(t, "unauthorized", structured["code"])
	assert.Equal(t, false, structured["retryable"])
}

func TestNotConfigured(t *testing.T) {
	isolateEnv(t)

	res := run(t, "", "count")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Contains(t, res.stderr, "No credentials configured")
}

func TestChannelSend(t *testing.T) {
	mock, _ := setupMock(t)

	res := run(t, "", "channel", "send", "lobby", "--message", "hi")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Sent message to channel lobby")

	res = run(t, `{"type":"refresh"}`, "channel", "send", "lobby")
	require.NoError(t, res.err)

	res = run(t, "", "ch", "send", "news", "-d", `{"n":1}`, "-j")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"channel":"news","sent":true}`, res.stdout)

	assert.Equal(t, []mockserver.Message{
		{Target: "channel", Name: "lobby", Body: `{"message":"hi"}`},
		{Target: "channel", Name: "lobby", Body: `{"type":"refresh"}`},
		{Target: "channel", Name: "news", Body: `{"n":1}`},
	}, mock.Messages())
}

func TestChannelSend_InvalidInput(t *testing.T) {
	mock, _ := setupMock(t)

	res := run(t, "", "channel", "send", "lobby", "--data", "not json")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))

	res = run(t, "", "channel", "send", "lobby", "--message", "a", "--data", "{}")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "cannot be used together")

	res = run(t, "", "channel", "send", "lobby")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))

	assert.Empty(t, mock.Messages())
}

func TestChannelSend_DryRun(t *testing.T) {
	mock, srv := setupMock(t)

	res := run(t, "", "channel", "send", "lobby", "-m", "hi", "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[DRY-RUN] Would send message to channel lobby")
	assert.Contains(t, res.stdout, "POST "+srv.URL+"/1.0.0/"+testAPIKey+"/channels/lobby")
	assert.NotContains(t, res.stdout, testSecretKey)
	assert.Empty(t, mock.Messages())
}

func TestChannelUsers(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice", "lobby")
	mock.Connect("bob", "lobby")
	mock.Connect("albert", "lobby")

	res := run(t, "", "channel", "users", "lobby")
	require.NoError(t, res.err)
	assert.Equal(t, "alice\nbob\nalbert\n", res.stdout)

	res = run(t, "", "channel", "users", "lobby", "--match", "al", "--json")
	require.NoError(t, res.err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &names))
	assert.ElementsMatch(t, []string{"alice", "albert"}, names)

	res = run(t, "", "channel", "users", "lobby", "--match", "   ")
	require.NoError(t, res.err)
	assert.Equal(t, "alice\nbob\nalbert\n", res.stdout)

	res = run(t, "", "channel", "users", "empty")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No users in channel empty")
}

func TestUserOnline(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice")

	res := run(t, "", "user", "online", "alice", "carol")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "USER")
	assert.Regexp(t, `alice\s+true`, res.stdout)
	assert.Regexp(t, `carol\s+false`, res.stdout)

	res = run(t, "", "user", "online", "alice", "carol", "-o", "jsonl")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"username":"alice","success":true,"data":true}`, lines[0])
	assert.JSONEq(t, `{"username":"carol","success":true,"data":false}`, lines[1])
}

func TestUserSignOut(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice", "lobby")

	res := run(t, "", "user", "signout", "alice")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed out alice")

	res = run(t, "", "user", "signout", "alice")
	require.Error(t, res.err)
	assert.Equal(t, exitNotFound, ExitCode(res.err))
}

func TestUserSignOut_DuplicateNames(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice")

	res := run(t, "", "user", "signout", "alice", "alice")
	require.NoError(t, res.err)
	assert.Equal(t, 1, strings.Count(res.stdout, "Signed out alice"))
}

func TestUserSignOut_PartialFailure(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice")

	res := run(t, "", "user", "signout", "alice", "ghost", "--concurrency", "1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 2 users failed")
	assert.Contains(t, res.stdout, "Signed out alice")
	assert.Contains(t, res.stderr, "ghost:")
	assert.Equal(t, exitNotFound, ExitCode(res.err))
}

func TestUserSend(t *testing.T) {
	mock, _ := setupMock(t)

	res := run(t, "", "user", "send", "alice", "bob smith", "--message", "hey")
	require.NoError(t, res.err)

	assert.ElementsMatch(t, []mockserver.Message{
		{Target: "user", Name: "alice", Body: `{"message":"hey"}`},
		{Target: "user", Name: "bob smith", Body: `{"message":"hey"}`},
	}, mock.Messages())
}

func TestUserSend_DryRunJSON(t *testing.T) {
	mock, _ := setupMock(t)

	res := run(t, "", "user", "send", "alice", "-d", `{"x":1}`, "--dry-run", "--json", "--compact-json")
	require.NoError(t, res.err)

	var payload struct {
		DryRun  bool `json:"dry_run"`
		Request struct {
			Method  string            `json:"method"`
			Headers map[string]string `json:"headers"`
			Body    string            `json:"body"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.True(t, payload.DryRun)
	assert.Equal(t, "POST", payload.Request.Method)
	assert.Equal(t, `{"x":1}`, payload.Request.Body)
	assert.Equal(t, "application/json", payload.Request.Headers["Content-Type"])
	assert.Empty(t, mock.Messages())
}

func TestUser_InvalidConcurrency(t *testing.T) {
	setupMock(t)

	res := run(t, "", "user", "online", "alice", "--concurrency", "0")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestStatus(t *testing.T) {
	mock, _ := setupMock(t)
	mock.Connect("alice")

	res := run(t, "", "status", "--ping", "--json")
	require.NoError(t, res.err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, true, info["configured"])
	assert.Equal(t, "environment", info["source"])
	assert.Equal(t, "hosted", info["mode"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, true, info["reachable"])
	assert.EqualValues(t, 1, info["online"])

	res = run(t, "", "status")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "API version:")
}

func TestStatus_PingFailure(t *testing.T) {
	setupMock(t)
	t.Setenv(config.EnvSecretKey, "wrong")

	res := run(t, "", "status", "--ping")
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "Reachable:")
	assert.Equal(t, exitAuth, ExitCode(res.err))
}

func TestQuiet(t *testing.T) {
	setupMock(t)

	res := run(t, "", "channel", "send", "lobby", "-m", "hi", "-Q")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}
