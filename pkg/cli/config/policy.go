package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Policy holds the group policy configuration
type Policy struct {
	Path string
}

// Flags returns CLI flags for Policy configuration
func (p *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to group policy YAML file (reserved names, member/board caps)",
			Category:    "Policy",
			Sources:     cli.EnvVars("CARAVAN_POLICY"),
			Destination: &p.Path,
		},
	}
}

// Configure loads the group policy from the YAML file. Without a file the
// default unrestricted policy is used.
func (p *Policy) Configure(ctx context.Context) (*model.Policy, error) {
	if p.Path == "" {
		return model.DefaultPolicy(), nil
	}

	policy, err := LoadPolicyFromFile(p.Path)
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("Group policy loaded",
		"path", p.Path,
		"reservedNames", len(policy.ReservedNames),
		"maxMembers", policy.MaxMembers,
		"maxBoards", policy.MaxBoards,
	)

	return policy, nil
}

// LoadPolicyFromFile loads a group policy from a YAML file
func LoadPolicyFromFile(path string) (*model.Policy, error) {
	if path == "" {
		return nil, goerr.New("policy file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "policy file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file",
			goerr.V("path", path))
	}

	var policy model.Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy YAML",
			goerr.V("path", path))
	}

	if err := policy.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid policy",
			goerr.V("path", path))
	}

	return &policy, nil
}

// LogValue returns structured log value
func (p Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", p.Path),
	)
}
