package store

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"emt/internal/providers"
	"emt/internal/store/interfaces"
)

const storageVersion = 1

// ItemState is the persisted form of one item's counters. Views holds the
// serialized estimator bitmap.
type ItemState struct {
	Views      []byte               `json:"views"`
	Helpful    map[string]time.Time `json:"helpful"`
	NotHelpful map[string]time.Time `json:"not_helpful"`
	Saves      []string             `json:"saves"`
}

// StorageState is the versioned on-disk envelope for the memory backend.
// The explicit version field lets a future format coexist with old files
// during rollout.
type StorageState struct {
	Version   int                   `json:"version"`
	Items     map[string]*ItemState `json:"items"`
	Snapshots map[string][]byte     `json:"snapshots"`
}

// ExportState copies the live counters into a persistence envelope.
func (m *MemoryStore) ExportState() (*StorageState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := &StorageState{
		Version:   storageVersion,
		Items:     make(map[string]*ItemState, len(m.items)),
		Snapshots: make(map[string][]byte, len(m.snapshots)),
	}
	for id, ic := range m.items {
		views, err := ic.views.ToBytes()
		if err != nil {
			return nil, err
		}
		is := &ItemState{
			Views:      views,
			Helpful:    make(map[string]time.Time, len(ic.helpful)),
			NotHelpful: make(map[string]time.Time, len(ic.notHelpful)),
			Saves:      make([]string, 0, len(ic.saves)),
		}
		for fp, at := range ic.helpful {
			is.Helpful[fp] = at
		}
		for fp, at := range ic.notHelpful {
			is.NotHelpful[fp] = at
		}
		for fp := range ic.saves {
			is.Saves = append(is.Saves, fp)
		}
		state.Items[id] = is
	}
	for key, data := range m.snapshots {
		state.Snapshots[key] = data
	}
	return state, nil
}

// ImportState replaces the live counters with the persisted envelope.
func (m *MemoryStore) ImportState(state *StorageState) error {
	items := make(map[string]*itemCounters, len(state.Items))
	for id, is := range state.Items {
		ic := newItemCounters()
		if len(is.Views) > 0 {
			if err := ic.views.FromBytes(is.Views); err != nil {
				return err
			}
		}
		for fp, at := range is.Helpful {
			ic.helpful[fp] = at
		}
		for fp, at := range is.NotHelpful {
			ic.notHelpful[fp] = at
		}
		for _, fp := range is.Saves {
			ic.saves[fp] = struct{}{}
		}
		items[id] = ic
	}
	snapshots := make(map[string][]byte, len(state.Snapshots))
	for key, data := range state.Snapshots {
		snapshots[key] = data
	}

	m.mu.Lock()
	m.items = items
	m.snapshots = snapshots
	m.mu.Unlock()
	return nil
}

// FileManager persists the memory backend to a zstd-compressed file with an
// atomic tmp+rename write. It is inert (mem == nil) when the configured
// backend persists itself, as Redis does.
type FileManager struct {
	mem        *MemoryStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(engagementStore EngagementStoreInterface, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	if wrapped, ok := engagementStore.(*InstrumentedStore); ok {
		engagementStore = wrapped.inner
	}
	mem, _ := engagementStore.(*MemoryStore)
	return &FileManager{
		mem:        mem,
		compressor: compressor,
		logger:     logger,
	}
}

// Persistent reports whether this backend needs file persistence.
func (f *FileManager) Persistent() bool {
	return f.mem != nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	if f.mem == nil {
		return nil
	}
	state, err := f.mem.ExportState()
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(state)
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

	if _, err = file.Write(data); err != nil {
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

func (f *FileManager) LoadFromFile(fileName string) error {
	if f.mem == nil {
		return nil
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var state StorageState
	if err := json.Unmarshal(decompressed, &state); err != nil {
		return err
	}
	if state.Version != storageVersion {
		f.logger.Warnf(providers.TypeApp, "Unknown storage version %d in %s, starting empty", state.Version, fileName)
		return nil
	}
	return f.mem.ImportState(&state)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
