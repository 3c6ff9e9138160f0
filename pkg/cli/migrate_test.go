package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/cli"
	"github.com/secmon-lab/projectpilot/pkg/repository/firestore"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig()
	names := map[string]bool{}
	for _, c := range cfg.Collections {
		names[c.Name] = true
		gt.Array(t, c.Indexes).Length(1)
	}
	gt.Bool(t, names[firestore.CollectionProjects]).True()
	gt.Bool(t, names[firestore.CollectionChatHistory]).True()
}

func TestRun_MigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.db")
	err := cli.Run(context.Background(), []string{
		"projectpilot", "migrate", "--repository-backend", "sqlite", "--sqlite-path", path,
	}, "test")
	gt.NoError(t, err)
}

func TestRun_QueryRequiresText(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"projectpilot", "query", "--user", "alice", "--repository-backend", "memory",
	}, "test")
	gt.Value(t, err).NotNil()
}
