package product

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
)

func openTestDB(t *testing.T) (*gorm.DB, *db.Client) {
	t.Helper()

	// unique name per call so pooled connections share one database
	// without leaking state across tests
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Sale{}, &models.SaleItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn, db.NewFromConn(conn)
}
