package tester

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emrgen/glossary/internal/model"
)

// one test db per test binary, so packages can run in parallel
var testPath = filepath.Join(os.TempDir(), fmt.Sprintf("glossary-test-%d", os.Getpid()))

var (
	db *gorm.DB
)

func Setup() {
	RemoveDBFile()

	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(filepath.Join(testPath, "db"), os.ModePerm)
	if err != nil {
		panic(err)
	}

	// _fk=1 so cascade deletes behave like they do on postgres
	db, err = gorm.Open(sqlite.Open(filepath.Join(testPath, "db", "glossary.db")+"?_fk=1"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	err := os.RemoveAll(testPath)
	if err != nil {
		panic(err)
	}
}
