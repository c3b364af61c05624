package persistence

import (
	"os"

	json "github.com/goccy/go-json"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/persistence/interfaces"
	"github.com/itkutus/potbot/internal/providers"
)

type FileManager struct {
	store      *models.Store
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store *models.Store, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

// SaveToFile writes the full engine state snapshot. The write goes to a
// temp file that replaces the previous snapshot only after a successful
// fsync, so a crash mid-write cannot corrupt the last good snapshot.
func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.store.GetSnapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores engine state from a snapshot. A missing file is
// a fresh start, not an error. Files written by the original bot were
// plain uncompressed JSON, so when zstd decoding fails the raw bytes
// are tried as-is before giving up.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot is not zstd-compressed, trying plain JSON")
		jsonData = data
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(jsonData, &snapshot); err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot unreadable: %s", err)
		return err
	}

	f.store.PutSnapshot(&snapshot)
	return nil
}
