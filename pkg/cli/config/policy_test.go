package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/trailhead-social/caravan/pkg/cli/config"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadPolicyFromFile(t *testing.T) {
	path := writePolicyFile(t, `
reserved_names:
  - admin
  - staff
max_members: 10
max_boards: 3
`)

	policy, err := config.LoadPolicyFromFile(path)
	gt.NoError(t, err).Required()
	gt.Equal(t, []string{"admin", "staff"}, policy.ReservedNames)
	gt.Equal(t, 10, policy.MaxMembers)
	gt.Equal(t, 3, policy.MaxBoards)
	gt.True(t, policy.IsReserved("Admin"))
}

func TestLoadPolicyFromFile_Missing(t *testing.T) {
	_, err := config.LoadPolicyFromFile(filepath.Join(t.TempDir(), "nope.yml"))
	gt.Error(t, err)

	_, err = config.LoadPolicyFromFile("")
	gt.Error(t, err)
}

func TestLoadPolicyFromFile_InvalidYAML(t *testing.T) {
	path := writePolicyFile(t, "reserved_names: [unterminated")

	_, err := config.LoadPolicyFromFile(path)
	gt.Error(t, err)
}

func TestLoadPolicyFromFile_InvalidPolicy(t *testing.T) {
	path := writePolicyFile(t, "max_members: -1")

	_, err := config.LoadPolicyFromFile(path)
	gt.Error(t, err)
}

func TestPolicyConfigure_Default(t *testing.T) {
	cfg := &config.Policy{}

	policy, err := cfg.Configure(context.Background())
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, policy.MaxMembers)
	gt.False(t, policy.IsReserved("anything"))
}
