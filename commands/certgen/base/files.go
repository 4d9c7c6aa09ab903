package base

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

func pathExist(v string) (ok bool) {
	_, err := os.Stat(v)
	if err == nil {
		ok = true
		return
	}
	ok = !os.IsNotExist(err)
	return
}

// writeKeystore replaces name atomically, a failed write never leaves a partial keystore behind.
func writeKeystore(name string, data []byte, log zerolog.Logger) (err error) {
	path, absErr := filepath.Abs(name)
	if absErr != nil {
		err = fmt.Errorf("certgen: write keystore failed, invalid path %s", name)
		return
	}
	dir := filepath.Dir(path)
	if !pathExist(dir) {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			err = fmt.Errorf("certgen: write keystore failed, %v", mkErr)
			return
		}
	}
	if stat, statErr := os.Stat(path); statErr == nil {
		if stat.IsDir() {
			err = fmt.Errorf("certgen: write keystore failed, %s is a directory", path)
			return
		}
		log.Warn().Str("path", path).Msg("replacing existing keystore")
	}
	if writeErr := renameio.WriteFile(path, data, 0600, renameio.WithStaticPermissions(0600)); writeErr != nil {
		err = fmt.Errorf("certgen: write keystore failed, %v", writeErr)
		return
	}
	log.Debug().Str("path", path).Int("size", len(data)).Msg("keystore written")
	return
}
