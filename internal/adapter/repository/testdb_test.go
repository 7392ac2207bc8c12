package repository

import (
	"testing"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-analyzer/internal/testutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}
