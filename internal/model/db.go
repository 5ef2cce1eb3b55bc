package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Glossary{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Like{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&GlossaryHistory{}); err != nil {
		return err
	}

	return nil
}
