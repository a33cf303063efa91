package testhelpers

import (
	"os"
	"path/filepath"
)

func LoadFixture(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join("..", "testhelpers", "fixtures", name))
}
