package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Supplier{},
		&types.Product{},
		&types.Quote{},
		&types.RFQ{},
	); err != nil {
		return err
	}
	return BackfillNameKeys(db)
}

// BackfillNameKeys fills name_key for products written before the column
// existed or by clients that do not set it.
func BackfillNameKeys(db *gorm.DB) error {
	var rows []types.Product
	if err := db.Select("id", "name").Where("name_key = '' OR name_key IS NULL").Find(&rows).Error; err != nil {
		return err
	}
	for _, p := range rows {
		err := db.Model(&types.Product{}).
			Where("id = ?", p.ID).
			UpdateColumn("name_key", types.NameKey(p.Name)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
