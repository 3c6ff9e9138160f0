package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/repository/firestore"
	"github.com/secmon-lab/projectpilot/pkg/repository/memory"
	"github.com/secmon-lab/projectpilot/pkg/repository/sqlite"
)

// runRepositoryTest runs a contract test against every available backend
func runRepositoryTest(t *testing.T, test func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	t.Run("Memory", func(t *testing.T) {
		test(t, func(t *testing.T) interfaces.Repository {
			return memory.New()
		})
	})

	t.Run("SQLite", func(t *testing.T) {
		test(t, func(t *testing.T) interfaces.Repository {
			repo, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "projectpilot.db"))
			gt.NoError(t, err).Required()
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		})
	})

	t.Run("Firestore", func(t *testing.T) {
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			t.Skip("FIRESTORE_PROJECT_ID not set")
		}
		databaseID := os.Getenv("FIRESTORE_DATABASE_ID")

		test(t, func(t *testing.T) interfaces.Repository {
			prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
			repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
			gt.NoError(t, err).Required()
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		})
	})
}
