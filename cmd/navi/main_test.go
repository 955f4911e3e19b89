package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRoutes = `
routes:
  - path: ""
    redirect_to: home
  - path: home
    component: Home
  - path: users
    component: Users
    children:
      - path: ":id"
        component: User
        guards: [auth]
      - path: me
        redirect_to: ":id"
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRoutes), 0o600))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--routes", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes")
	require.NoError(t, err)
	require.Contains(t, out, "PATH")
	require.Regexp(t, `(?m)^/\s+-\s+/home\s+0$`, out)
	require.Regexp(t, `(?m)^/home\s+Home\s+-\s+0$`, out)
	require.Regexp(t, `(?m)^  /users/:id\s+User\s+-\s+1$`, out)
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "match", "/users/42", "/", "/nowhere")
	require.NoError(t, err)
	require.Contains(t, out, "/users/42: /users/:id id=42\n")
	require.Contains(t, out, "/: /home (redirected to /home)\n")
	require.Contains(t, out, "/nowhere: no match\n")

	_, err = run(t, "match")
	require.Error(t, err, "at least one path is required")
}

func TestMissingRoutes(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--routes", filepath.Join(t.TempDir(), "none.yaml"), "routes"})
	require.Error(t, cmd.Execute())
}
